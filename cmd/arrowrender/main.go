// Command arrowrender compiles an arrow-graph spec from a JSON file and
// renders it offline to a 32-bit float WAV file, the batch counterpart
// to arrowplay's live speaker output.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/arrowgraph/arrowgraph/internal/effects"
	"github.com/arrowgraph/arrowgraph/internal/graph"
	"github.com/arrowgraph/arrowgraph/internal/render"
	"github.com/arrowgraph/arrowgraph/internal/specjson"
)

func main() {
	var (
		specPath   = flag.String("spec", "", "path to a JSON arrow-graph spec (required)")
		outPath    = flag.String("out", "out.wav", "output WAV path")
		sampleRate = flag.Int("sample-rate", 44100, "output sample rate")
		seconds    = flag.Float64("seconds", 5.0, "duration to render, in seconds")
		channels   = flag.Int("channels", 2, "output channel count")
		effectName = flag.String("effect", "none", "host-side post-processing effect: none|delay|reverb|chorus|compressor|distortion|eq")
	)
	flag.Parse()

	if *specPath == "" {
		log.Fatal("arrowrender: -spec is required")
	}

	spec, err := loadSpec(*specPath)
	if err != nil {
		log.Fatal(err)
	}

	root, _, err := graph.Compile(spec, graph.CompileOptions{SampleRate: float64(*sampleRate)})
	if err != nil {
		log.Fatal(err)
	}

	driver := render.NewDriver(root, render.Config{SampleRate: float64(*sampleRate), Channels: *channels})
	if fx := effects.New(*effectName, *sampleRate); fx != nil {
		driver.SetPostEffect(fx)
	}
	frames := int(float64(*sampleRate) * *seconds)
	out := make([]float32, frames*(*channels))

	const reportEvery = 1 // seconds, per the render contract's progress reporting
	blockFrames := *sampleRate * reportEvery
	written := 0
	for written < frames {
		chunk := frames - written
		if chunk > blockFrames {
			chunk = blockFrames
		}
		n := driver.RenderBlock(chunk, out[written*(*channels):(written+chunk)*(*channels)])
		written += n
		fmt.Printf("rendered %.1fs / %.1fs\n", float64(written)/float64(*sampleRate), *seconds)
		if n < chunk {
			break
		}
	}

	wav := render.EncodeWAVFloat32LE(out[:written*(*channels)], *sampleRate, *channels)
	if err := os.WriteFile(*outPath, wav, 0o644); err != nil {
		log.Fatal(err)
	}
	if n := driver.Overruns(); n > 0 {
		fmt.Printf("warning: %d render overrun(s)\n", n)
	}
	fmt.Printf("wrote %s (%d frames)\n", *outPath, written)
}

func loadSpec(path string) (specjson.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return specjson.Spec{}, err
	}
	var spec specjson.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return specjson.Spec{}, fmt.Errorf("arrowrender: invalid spec JSON: %w", err)
	}
	return spec, nil
}
