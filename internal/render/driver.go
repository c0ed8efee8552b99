// Package render implements the pull-based render driver: the single
// place that asks the compiled arrow.Arrow graph for samples, converts
// them to the host's wire format, and never lets a problem on the
// render path become a panic.
package render

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/arrowgraph/arrowgraph/internal/arrow"
)

// Config configures a Driver.
type Config struct {
	SampleRate float64
	Channels   int // interleaved output channels; the graph itself is mono
}

// DefaultConfig returns 44.1kHz stereo.
func DefaultConfig() Config {
	return Config{SampleRate: 44100, Channels: 2}
}

// Driver pulls blocks of up to arrow.MaxBlockSize frames from a root
// arrow.Arrow and renders
// them to interleaved float32, broadcasting each block to any
// subscribers (e.g. a level meter or an offline file writer) alongside
// whatever handed it the live audio callback.
type Driver struct {
	root    arrow.Arrow
	cfg     Config
	mono64  []float64
	timeBuf []float64

	// sampleIndex is the absolute index of the next sample this driver
	// will ask the graph for, the running counter the time convention
	// (inputs[i] = sampleIndex/rate + i/rate) is built from. It advances
	// every call, silent blocks included, so the graph sees a
	// continuous clock no matter how much of it was skipped by the
	// silence fast path.
	sampleIndex uint64

	overruns atomic.Uint64

	mu   sync.Mutex
	subs []chan []float32

	isSilent func() bool

	postEffect PostEffect
}

// PostEffect is a host-side stereo effect applied to the driver's
// already-rendered output, never to the arrow graph itself — the arrow
// core has no effects nodes (spec.md's Non-goals exclude them); a chorus
// or reverb lives here, after the graph, or not at all.
type PostEffect interface {
	Process(l, r float32) (float32, float32)
}

// SetPostEffect installs e to run on every stereo frame RenderBlock
// produces. Only applied when Channels == 2; a nil e disables it.
func (d *Driver) SetPostEffect(e PostEffect) { d.postEffect = e }

// SetSilenceCheck installs a predicate the driver polls once per block:
// when it reports true, RenderBlock writes zeros without calling the
// graph's Process at all, the fast path an idle polyphonic preset (every
// voice gated closed) relies on to cost nothing between notes.
func (d *Driver) SetSilenceCheck(fn func() bool) { d.isSilent = fn }

// NewDriver wraps root for pulling, using cfg (falling back to
// DefaultConfig fields that are left zero).
func NewDriver(root arrow.Arrow, cfg Config) *Driver {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 2
	}
	root.SetSampleRate(cfg.SampleRate)
	return &Driver{
		root:    root,
		cfg:     cfg,
		mono64:  make([]float64, arrow.MaxBlockSize),
		timeBuf: make([]float64, arrow.MaxBlockSize),
	}
}

// Overruns returns how many times RenderBlock was asked for more frames
// than arrow.MaxBlockSize in one call, a condition it survives by
// rendering in multiple sub-blocks rather than failing.
func (d *Driver) Overruns() uint64 { return d.overruns.Load() }

// Subscribe returns a channel that receives a copy of every rendered
// block's interleaved float32 samples. The channel is buffered and
// dropped from silently if the subscriber falls behind — a slow
// listener must never stall the render path.
func (d *Driver) Subscribe() <-chan []float32 {
	ch := make(chan []float32, 8)
	d.mu.Lock()
	d.subs = append(d.subs, ch)
	d.mu.Unlock()
	return ch
}

func (d *Driver) broadcast(block []float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ch := range d.subs {
		cp := make([]float32, len(block))
		copy(cp, block)
		select {
		case ch <- cp:
		default:
		}
	}
}

// RenderBlock fills out (interleaved, cfg.Channels channels, float32)
// with frames frames of audio, duplicating the mono graph output across
// channels. It returns the number of frames actually written, which
// equals frames unless out is too short to hold them.
//
// frames larger than arrow.MaxBlockSize is handled by rendering in
// multiple sub-blocks, bumping Overruns and logging each clamp, rather
// than panicking. The graph pull itself uses only the driver's
// preallocated buffers; each Subscribe channel is sent a freshly
// allocated copy of the block.
func (d *Driver) RenderBlock(frames int, out []float32) int {
	maxFrames := len(out) / d.cfg.Channels
	if frames > maxFrames {
		frames = maxFrames
	}
	silent := d.isSilent != nil && d.isSilent()

	written := 0
	for written < frames {
		chunk := frames - written
		if chunk > arrow.MaxBlockSize {
			chunk = arrow.MaxBlockSize
			d.overruns.Add(1)
			log.Printf("render: overrun, clamping block of %d frames to %d", frames-written, chunk)
		}
		mono := d.mono64[:chunk]
		if silent {
			for i := range mono {
				mono[i] = 0
			}
		} else {
			times := d.timeBuf[:chunk]
			base := d.sampleIndex
			rate := d.cfg.SampleRate
			for i := 0; i < chunk; i++ {
				times[i] = float64(base+uint64(i)) / rate
			}
			d.root.Process(times, mono)
		}
		d.sampleIndex += uint64(chunk)
		base := written * d.cfg.Channels
		for i := 0; i < chunk; i++ {
			s := float32(mono[i])
			for ch := 0; ch < d.cfg.Channels; ch++ {
				out[base+i*d.cfg.Channels+ch] = s
			}
		}
		written += chunk
	}
	if d.postEffect != nil && d.cfg.Channels == 2 {
		for i := 0; i < written; i++ {
			idx := i * 2
			out[idx], out[idx+1] = d.postEffect.Process(out[idx], out[idx+1])
		}
	}
	d.broadcast(out[:written*d.cfg.Channels])
	return written
}
