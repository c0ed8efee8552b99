package arrow

import "math"

// Crossfade linearly blends a and b by a mix child in [0,1]: 0 is all a,
// 1 is all b.
type Crossfade struct {
	a, b, mix        Arrow
	bufA, bufB, bufM []float64
}

func NewCrossfade(a, b, mix Arrow) *Crossfade {
	return &Crossfade{
		a: a, b: b, mix: mix,
		bufA: make([]float64, MaxBlockSize),
		bufB: make([]float64, MaxBlockSize),
		bufM: make([]float64, MaxBlockSize),
	}
}

func (c *Crossfade) SetSampleRate(rate float64) { setRateOfChildren(rate, c.a, c.b, c.mix) }

func (c *Crossfade) Process(inputs, outputs []float64) {
	n := len(outputs)
	bufA, bufB, bufM := c.bufA[:n], c.bufB[:n], c.bufM[:n]
	c.a.Process(inputs, bufA)
	c.b.Process(inputs, bufB)
	c.mix.Process(inputs, bufM)
	for i := 0; i < n; i++ {
		m := clamp01(bufM[i])
		outputs[i] = bufA[i]*(1-m) + bufB[i]*m
	}
}

// CrossfadeEqPow is Crossfade with an equal-power (sin/cos) taper instead
// of a linear one, so the perceived loudness stays constant through the
// sweep.
type CrossfadeEqPow struct {
	a, b, mix        Arrow
	bufA, bufB, bufM []float64
}

func NewCrossfadeEqPow(a, b, mix Arrow) *CrossfadeEqPow {
	return &CrossfadeEqPow{
		a: a, b: b, mix: mix,
		bufA: make([]float64, MaxBlockSize),
		bufB: make([]float64, MaxBlockSize),
		bufM: make([]float64, MaxBlockSize),
	}
}

func (c *CrossfadeEqPow) SetSampleRate(rate float64) { setRateOfChildren(rate, c.a, c.b, c.mix) }

func (c *CrossfadeEqPow) Process(inputs, outputs []float64) {
	n := len(outputs)
	bufA, bufB, bufM := c.bufA[:n], c.bufB[:n], c.bufM[:n]
	c.a.Process(inputs, bufA)
	c.b.Process(inputs, bufB)
	c.mix.Process(inputs, bufM)
	for i := 0; i < n; i++ {
		m := clamp01(bufM[i])
		theta := m * math.Pi / 2
		outputs[i] = bufA[i]*math.Cos(theta) + bufB[i]*math.Sin(theta)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
