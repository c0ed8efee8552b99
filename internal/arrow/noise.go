package arrow

import "math"

// splitmix64 is the small, seedable generator Rand, ExpRand and
// NoiseSmoothStep use for deterministic per-node randomness: no global
// RNG, no import of math/rand, one state word per node.
func splitmix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func nextUnit(state *uint64) float64 {
	return float64(splitmix64(state)>>11) / float64(1<<53)
}

// Rand holds a uniform random value in [low,high), drawn fresh every
// holdSeconds, and outputs it flat in between — a sample-and-hold
// source, the same shape as the teacher's LFO random waveform.
type Rand struct {
	low, high, holdSeconds float64
	rate                   float64
	state                  uint64
	remaining              float64
	current                float64
}

func NewRand(low, high, holdSeconds float64, seed uint64) *Rand {
	r := &Rand{low: low, high: high, holdSeconds: holdSeconds, rate: 44100, state: seed | 1}
	r.current = low + nextUnit(&r.state)*(high-low)
	return r
}

func (r *Rand) SetSampleRate(rate float64) {
	if rate > 0 {
		r.rate = rate
	}
}

func (r *Rand) Process(inputs, outputs []float64) {
	dt := 1.0 / r.rate
	for i := range outputs {
		if r.remaining <= 0 {
			r.current = r.low + nextUnit(&r.state)*(r.high-r.low)
			r.remaining = r.holdSeconds
		}
		outputs[i] = r.current
		r.remaining -= dt
	}
}

// ExpRand is Rand with the draw taken on an exponential (log-uniform)
// scale, for parameters like frequency where a linear draw clusters the
// ear's attention unevenly.
type ExpRand struct {
	low, high, holdSeconds float64
	rate                   float64
	state                  uint64
	remaining              float64
	current                float64
}

func NewExpRand(low, high, holdSeconds float64, seed uint64) *ExpRand {
	if low <= 0 {
		low = 1e-9
	}
	e := &ExpRand{low: low, high: high, holdSeconds: holdSeconds, rate: 44100, state: seed | 1}
	e.current = e.draw()
	return e
}

func (e *ExpRand) draw() float64 {
	logLow, logHigh := math.Log(e.low), math.Log(e.high)
	return math.Exp(logLow + nextUnit(&e.state)*(logHigh-logLow))
}

func (e *ExpRand) SetSampleRate(rate float64) {
	if rate > 0 {
		e.rate = rate
	}
}

func (e *ExpRand) Process(inputs, outputs []float64) {
	dt := 1.0 / e.rate
	for i := range outputs {
		if e.remaining <= 0 {
			e.current = e.draw()
			e.remaining = e.holdSeconds
		}
		outputs[i] = e.current
		e.remaining -= dt
	}
}

// NoiseSmoothStep is a Rand whose transitions are smoothed with a cubic
// (3x^2-2x^3) step instead of jumping, giving continuous low-frequency
// wander suitable for driving pitch or filter cutoff without zipper
// noise.
type NoiseSmoothStep struct {
	low, high, holdSeconds float64
	rate                   float64
	state                  uint64
	remaining              float64
	from, to               float64
}

func NewNoiseSmoothStep(low, high, holdSeconds float64, seed uint64) *NoiseSmoothStep {
	n := &NoiseSmoothStep{low: low, high: high, holdSeconds: holdSeconds, rate: 44100, state: seed | 1}
	n.to = low + nextUnit(&n.state)*(high-low)
	n.from = n.to
	return n
}

func (n *NoiseSmoothStep) SetSampleRate(rate float64) {
	if rate > 0 {
		n.rate = rate
	}
}

func (n *NoiseSmoothStep) Process(inputs, outputs []float64) {
	dt := 1.0 / n.rate
	for i := range outputs {
		if n.remaining <= 0 {
			n.from = n.to
			n.to = n.low + nextUnit(&n.state)*(n.high-n.low)
			n.remaining = n.holdSeconds
		}
		frac := 1.0
		if n.holdSeconds > 0 {
			frac = clamp01(1 - n.remaining/n.holdSeconds)
		}
		s := frac * frac * (3 - 2*frac)
		outputs[i] = n.from + s*(n.to-n.from)
		n.remaining -= dt
	}
}

// Line ramps linearly from start to end over durationSeconds, then holds
// at end.
type Line struct {
	start, end, duration float64
	rate                 float64
	t                    float64
}

func NewLine(start, end, durationSeconds float64) *Line {
	return &Line{start: start, end: end, duration: durationSeconds, rate: 44100}
}

func (l *Line) SetSampleRate(rate float64) {
	if rate > 0 {
		l.rate = rate
	}
}

func (l *Line) Process(inputs, outputs []float64) {
	dt := 1.0 / l.rate
	for i := range outputs {
		if l.duration <= 0 {
			outputs[i] = l.end
		} else {
			frac := clamp01(l.t / l.duration)
			outputs[i] = l.start + frac*(l.end-l.start)
		}
		l.t += dt
	}
}
