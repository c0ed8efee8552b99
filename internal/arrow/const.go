package arrow

import (
	"math"
	"sync/atomic"
)

// Settable is satisfied by anything a HandleIndex can hold a named,
// externally-writable reference to: Const and its ConstOctave/ConstCent
// variants by promotion, and Choruser, which registers itself under
// the name of the Const it detunes.
type Settable interface {
	Set(v float64)
	Value() float64
}

// Const is a named, mutable scalar. Control-domain code (a modulator, a
// handle-index write) calls Set; the render domain calls Process. The
// value is held as a single atomic word so no lock is needed on either
// side, per the control/render discipline in the design: audio-rate
// artefacts from a value changing mid-block are acceptable.
type Const struct {
	bits atomic.Uint64
}

// NewConst returns a Const initialised to v.
func NewConst(v float64) *Const {
	c := &Const{}
	c.Set(v)
	return c
}

// Set stores a new value, visible to any subsequent Process call.
func (c *Const) Set(v float64) { c.bits.Store(math.Float64bits(v)) }

// Value returns the current value.
func (c *Const) Value() float64 { return math.Float64frombits(c.bits.Load()) }

func (c *Const) Process(inputs, outputs []float64) {
	v := c.Value()
	for i := range outputs {
		outputs[i] = v
	}
}

func (c *Const) SetSampleRate(float64) {}

// ConstOctave holds a value expressed in octaves and outputs 2^v.
type ConstOctave struct{ Const }

func NewConstOctave(v float64) *ConstOctave { return &ConstOctave{*NewConst(v)} }

func (c *ConstOctave) Process(inputs, outputs []float64) {
	v := math.Exp2(c.Value())
	for i := range outputs {
		outputs[i] = v
	}
}

// ConstCent holds a value expressed in cents and outputs 2^(v/1200).
type ConstCent struct{ Const }

func NewConstCent(v float64) *ConstCent { return &ConstCent{*NewConst(v)} }

func (c *ConstCent) Process(inputs, outputs []float64) {
	v := math.Exp2(c.Value() / 1200.0)
	for i := range outputs {
		outputs[i] = v
	}
}

// ReciprocalConst outputs 1/v for a fixed v captured at construction.
type ReciprocalConst struct {
	inv float64
}

func NewReciprocalConst(v float64) *ReciprocalConst {
	if v == 0 {
		return &ReciprocalConst{inv: 0}
	}
	return &ReciprocalConst{inv: 1.0 / v}
}

func (r *ReciprocalConst) Process(inputs, outputs []float64) {
	for i := range outputs {
		outputs[i] = r.inv
	}
}
func (r *ReciprocalConst) SetSampleRate(float64) {}

// Reciprocal outputs 1/inner(time) for a child arrow evaluated each sample.
type Reciprocal struct {
	inner Arrow
	buf   []float64
}

func NewReciprocal(inner Arrow) *Reciprocal {
	return &Reciprocal{inner: inner, buf: make([]float64, MaxBlockSize)}
}

func (r *Reciprocal) Process(inputs, outputs []float64) {
	n := len(outputs)
	buf := r.buf[:n]
	r.inner.Process(inputs, buf)
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			outputs[i] = 0
			continue
		}
		outputs[i] = 1.0 / buf[i]
	}
}

func (r *Reciprocal) SetSampleRate(rate float64) { setRateOfChildren(rate, r.inner) }
