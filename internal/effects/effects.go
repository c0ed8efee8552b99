// Package effects implements host-side stereo post-processing: delay,
// reverb, chorus, compression, distortion, and a runtime-adjustable
// equalizer, applied to a render.Driver's already-rendered output.
// spec.md's Non-goals keep effects out of the arrow graph itself, so
// this package is entirely separate from internal/arrow — it processes
// float32 stereo frames one at a time, after the graph has already run.
package effects

// Effector processes one stereo frame and can be reset to silence
// between uses (e.g. when a host swaps which effect is active).
type Effector interface {
	Process(l, r float32) (float32, float32)
	Reset()
}

// Chain applies a sequence of effects in order, itself an Effector so
// chains can nest.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(l, r float32) (float32, float32) {
	for _, e := range c.effects {
		l, r = e.Process(l, r)
	}
	return l, r
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}

// New builds one of the named effects with reasonable defaults, for
// hosts that expose a single -effect flag rather than wiring parameters
// by hand. An unrecognized name (including "none") returns nil.
func New(name string, sampleRate int) Effector {
	switch name {
	case "delay":
		return NewDelayEffect(sampleRate, 250, 0.35, 0.2, 0.3)
	case "reverb":
		return NewReverbEffect(sampleRate, 0.6, 0.5, 0.3)
	case "chorus":
		return NewChorusEffect(sampleRate, 15, 0.1, 3, 0.5, 0.5)
	case "compressor":
		return NewCompressorEffect(sampleRate, -18, 4, 10, 120, 6)
	case "distortion":
		return NewDistortionEffect(sampleRate, 2, 0.7, 8000)
	case "eq":
		return NewEqualizerEffect(sampleRate)
	default:
		return nil
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// mix crossfades dry against wet by a 0..1 wet amount.
func mix(dry, wet, wetAmount float32) float32 {
	return dry*(1-wetAmount) + wet*wetAmount
}

func millisecondsToSamples(ms float64, sampleRate int) int {
	return int(ms * float64(sampleRate) / 1000.0)
}
