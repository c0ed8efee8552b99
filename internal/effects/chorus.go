package effects

import "math"

// ChorusEffect thickens a stereo signal with a sinusoidally-modulated
// delay line: the same family of effect as arrow.Choruser, but applied
// host-side to the driver's already-rendered stereo output rather than
// compiled into the arrow graph. spec.md's Non-goals keep DSP effects
// out of the graph core; this package is where a -effect flag's chorus,
// delay, reverb, compressor, and distortion post-processing lives
// instead.
type ChorusEffect struct {
	bufL, bufR []float32
	pos        int
	size       int
	depth      float32 // modulation depth, in samples
	rate       float64 // modulation rate, in radians per sample
	phase      float64
	feedback   float32
	wet        float32
}

// NewChorusEffect builds a chorus/flanger effect.
//   - delayMs: with depthMs, sizes the delay line (delayMs + depthMs
//     plus two samples); the read point sits half that length behind
//     the write point, so the base delay is about (delayMs+depthMs)/2
//   - feedback: feedback amount, 0..1
//   - depthMs: modulation depth in ms
//   - rateHz: modulation rate in Hz (typically 0.1-5Hz)
//   - wet: wet/dry mix, 0..1
func NewChorusEffect(sampleRate int, delayMs, feedback, depthMs, rateHz, wet float32) *ChorusEffect {
	baseSamples := millisecondsToSamples(float64(delayMs), sampleRate)
	depthSamples := float64(depthMs) * float64(sampleRate) / 1000.0
	size := baseSamples + int(depthSamples) + 2
	if size < 4 {
		size = 4
	}
	return &ChorusEffect{
		bufL:     make([]float32, size),
		bufR:     make([]float32, size),
		size:     size,
		depth:    float32(depthSamples),
		rate:     2.0 * math.Pi * float64(rateHz) / float64(sampleRate),
		feedback: clamp(feedback, 0, 0.9),
		wet:      clamp(wet, 0, 1),
	}
}

func (c *ChorusEffect) Process(l, r float32) (float32, float32) {
	mod := float32(math.Sin(c.phase)) * c.depth
	c.advancePhase()

	c.bufL[c.pos] = l
	c.bufR[c.pos] = r

	delL, delR := c.readDelayed(mod)

	c.bufL[c.pos] += delL * c.feedback
	c.bufR[c.pos] += delR * c.feedback

	c.pos++
	if c.pos >= c.size {
		c.pos = 0
	}
	return mix(l, delL, c.wet), mix(r, delR, c.wet)
}

func (c *ChorusEffect) advancePhase() {
	c.phase += c.rate
	if c.phase > 2*math.Pi {
		c.phase -= 2 * math.Pi
	}
}

// readDelayed interpolates the two channels' history buffers at a
// fractional offset behind c.pos, the offset wobbling by mod samples
// around the chorus's base delay.
func (c *ChorusEffect) readDelayed(mod float32) (float32, float32) {
	delay := float32(c.size/2) + mod
	readPos := float32(c.pos) - delay
	for readPos < 0 {
		readPos += float32(c.size)
	}
	idx := int(readPos)
	frac := readPos - float32(idx)
	idx2 := idx + 1
	if idx2 >= c.size {
		idx2 = 0
	}
	delL := c.bufL[idx]*(1-frac) + c.bufL[idx2]*frac
	delR := c.bufR[idx]*(1-frac) + c.bufR[idx2]*frac
	return delL, delR
}

func (c *ChorusEffect) Reset() {
	for i := range c.bufL {
		c.bufL[i] = 0
		c.bufR[i] = 0
	}
	c.pos = 0
	c.phase = 0
}
