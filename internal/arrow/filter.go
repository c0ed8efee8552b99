package arrow

import (
	"math"
	"sync/atomic"
)

// LowPassFilter is a one-pole RC low-pass, matching the output-stage
// filter shape used for the FM engine's final mix stage: cheap, stable
// at audio rate, and good enough for the "warm the edges" use this
// combinator targets. Cutoff is atomic so control code can sweep it.
type LowPassFilter struct {
	cutoffBits atomic.Uint64
	inner      Arrow
	rate       float64
	scratch    []float64
	y          float64
}

func NewLowPassFilter(inner Arrow, cutoffHz float64) *LowPassFilter {
	f := &LowPassFilter{inner: inner, rate: 44100, scratch: make([]float64, MaxBlockSize)}
	f.SetCutoff(cutoffHz)
	return f
}

func (f *LowPassFilter) SetCutoff(hz float64) { f.cutoffBits.Store(math.Float64bits(hz)) }
func (f *LowPassFilter) Cutoff() float64      { return math.Float64frombits(f.cutoffBits.Load()) }

func (f *LowPassFilter) SetSampleRate(rate float64) {
	if rate > 0 {
		f.rate = rate
	}
	setRateOfChildren(rate, f.inner)
}

func (f *LowPassFilter) Process(inputs, outputs []float64) {
	n := len(outputs)
	scratch := f.scratch[:n]
	f.inner.Process(inputs, scratch)

	cutoff := f.Cutoff()
	if cutoff <= 0 {
		copy(outputs, scratch)
		return
	}
	rc := 1.0 / (2 * math.Pi * cutoff)
	dt := 1.0 / f.rate
	alpha := dt / (rc + dt)
	y := f.y
	for i := 0; i < n; i++ {
		y += alpha * (scratch[i] - y)
		outputs[i] = y
	}
	f.y = y
}
