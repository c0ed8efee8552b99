package arrow

import "sync/atomic"

// Gate passes its inner arrow through while open and emits silence while
// closed, skipping the inner Process call entirely in the closed case —
// the fast path spec.md's render driver relies on for idle voices.
type Gate struct {
	inner Arrow
	open  atomic.Bool
}

func NewGate(inner Arrow) *Gate {
	return &Gate{inner: inner}
}

func (g *Gate) Open()        { g.open.Store(true) }
func (g *Gate) Close()       { g.open.Store(false) }
func (g *Gate) IsOpen() bool { return g.open.Load() }

func (g *Gate) SetSampleRate(rate float64) { setRateOfChildren(rate, g.inner) }

func (g *Gate) Process(inputs, outputs []float64) {
	if !g.open.Load() {
		for i := range outputs {
			outputs[i] = 0
		}
		return
	}
	g.inner.Process(inputs, outputs)
}
