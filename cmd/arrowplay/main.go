// Command arrowplay compiles an arrow-graph spec and plays it live out
// the platform audio device. With -pattern, it additionally builds an
// N-voice polyphonic preset from -spec (one fresh compile per voice) and
// drives it with a scheduled pattern instead of letting the raw graph
// free-run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/arrowgraph/arrowgraph/internal/arrow"
	"github.com/arrowgraph/arrowgraph/internal/effects"
	"github.com/arrowgraph/arrowgraph/internal/graph"
	"github.com/arrowgraph/arrowgraph/internal/hostaudio"
	"github.com/arrowgraph/arrowgraph/internal/pattern"
	"github.com/arrowgraph/arrowgraph/internal/preset"
	"github.com/arrowgraph/arrowgraph/internal/render"
	"github.com/arrowgraph/arrowgraph/internal/specjson"
)

func main() {
	var (
		specPath    = flag.String("spec", "", "path to a JSON arrow-graph spec (required)")
		patternPath = flag.String("pattern", "", "path to a JSON pattern spec; if set, -spec is compiled per-voice and scheduled instead of free-running")
		voices      = flag.Int("voices", 8, "voice pool size, only used with -pattern")
		sampleRate  = flag.Int("sample-rate", 44100, "output sample rate")
		duration    = flag.Duration("duration", 0, "stop after this long (0 = play until Ctrl-C)")
		effectName  = flag.String("effect", "none", "host-side post-processing effect: none|delay|reverb|chorus|compressor|distortion|eq")
	)
	flag.Parse()

	if *specPath == "" {
		log.Fatal("arrowplay: -spec is required")
	}
	spec, err := loadSpec(*specPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var driver *render.Driver
	var fadeOut func()
	var wait func()

	if *patternPath == "" {
		root, _, err := graph.Compile(spec, graph.CompileOptions{SampleRate: float64(*sampleRate)})
		if err != nil {
			log.Fatal(err)
		}
		driver = render.NewDriver(root, render.Config{SampleRate: float64(*sampleRate), Channels: 2})
		fadeOut = func() {}
		wait = func() {}
	} else {
		patSpec, err := loadPatternSpec(*patternPath)
		if err != nil {
			log.Fatal(err)
		}
		factory := func() (arrow.Arrow, *graph.HandleIndex, error) {
			return graph.Compile(spec, graph.CompileOptions{SampleRate: float64(*sampleRate)})
		}
		p, err := preset.New(*voices, factory)
		if err != nil {
			log.Fatal(err)
		}
		p.SetSampleRate(float64(*sampleRate))
		driver = render.NewDriver(p, render.Config{SampleRate: float64(*sampleRate), Channels: 2})
		driver.SetSilenceCheck(p.IsSilent)

		mp, err := pattern.Compile(patSpec, p, p.Handles, &pattern.RealClock{})
		if err != nil {
			log.Fatal(err)
		}
		done := make(chan error, 1)
		go func() { done <- mp.Play(ctx) }()
		fadeOut = p.ReleaseAll
		wait = func() { <-done }
	}

	if fx := effects.New(*effectName, *sampleRate); fx != nil {
		driver.SetPostEffect(fx)
	}

	stream, err := hostaudio.NewStream(driver, *sampleRate)
	if err != nil {
		log.Fatal(err)
	}
	stream.Play()

	if *duration > 0 {
		go func() {
			time.Sleep(*duration)
			cancel()
		}()
	}

	<-ctx.Done()
	fmt.Println("stopping...")
	fadeOut()
	wait()
	time.Sleep(50 * time.Millisecond) // let the fade-out's last block reach the speaker
	if err := stream.Stop(); err != nil {
		log.Fatal(err)
	}
}

func loadSpec(path string) (specjson.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return specjson.Spec{}, err
	}
	var spec specjson.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return specjson.Spec{}, fmt.Errorf("arrowplay: invalid spec JSON: %w", err)
	}
	return spec, nil
}

func loadPatternSpec(path string) (specjson.PatternSyntax, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return specjson.PatternSyntax{}, err
	}
	var p specjson.PatternSyntax
	if err := json.Unmarshal(data, &p); err != nil {
		return specjson.PatternSyntax{}, fmt.Errorf("arrowplay: invalid pattern JSON: %w", err)
	}
	return p, nil
}
