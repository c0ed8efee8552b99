package arrow

import "math"

// Choruser holds n independently compiled copies of the same subtree
// and averages their output, each copy driven at
// base·2^((kᵢ·cents)/1200) for a symmetric spread of offsets
// kᵢ ∈ {-(n-1)/2 … +(n-1)/2} around the value written through it — the
// classic detuned-voices chorus, not a delay line. At cents=0 or n=1
// every offset collapses to exactly 1.0 (math.Exp2(0) == 1), so the
// choruser's output is bitwise-identical to the plain subtree's.
//
// Choruser is itself the thing a compiler registers under the name of
// the Const it detunes: targets[i] is copy i's captured list of
// Settable nodes (usually one) found under that name inside copy i's
// own subtree, so Set/Value on the Choruser reach every copy the way
// they would a lone Const.
type Choruser struct {
	copies  []Arrow
	targets [][]Settable
	cents   float64
	scratch []float64
}

// NewChoruser builds a Choruser from copies (already-compiled, already
// distinct instances of the same subtree) and targets (each copy's
// captured Settable nodes for the name being detuned).
func NewChoruser(copies []Arrow, targets [][]Settable, cents float64) *Choruser {
	if len(copies) == 0 {
		copies = []Arrow{Identity{}}
		targets = [][]Settable{nil}
	}
	return &Choruser{
		copies:  copies,
		targets: targets,
		cents:   cents,
		scratch: make([]float64, MaxBlockSize),
	}
}

func (c *Choruser) SetSampleRate(rate float64) {
	setRateOfChildren(rate, c.copies...)
}

// Set broadcasts v, detuned per copy, to every copy's captured targets.
func (c *Choruser) Set(v float64) {
	n := len(c.copies)
	for i, targets := range c.targets {
		detuned := v * math.Exp2(offsetFor(i, n)*c.cents/1200.0)
		for _, t := range targets {
			t.Set(detuned)
		}
	}
}

// Value returns the center (undetuned) copy's target value, falling
// back to the first copy's if there's no exact center (n even).
func (c *Choruser) Value() float64 {
	n := len(c.copies)
	for i, targets := range c.targets {
		if offsetFor(i, n) == 0 && len(targets) > 0 {
			return targets[0].Value()
		}
	}
	for _, targets := range c.targets {
		if len(targets) > 0 {
			return targets[0].Value()
		}
	}
	return 0
}

func (c *Choruser) Process(inputs, outputs []float64) {
	n := len(outputs)
	for i := range outputs {
		outputs[i] = 0
	}
	scratch := c.scratch[:n]
	for _, cp := range c.copies {
		cp.Process(inputs, scratch)
		for i := 0; i < n; i++ {
			outputs[i] += scratch[i]
		}
	}
	count := float64(len(c.copies))
	for i := range outputs {
		outputs[i] /= count
	}
}

// offsetFor returns copy i's symmetric detune offset among n total
// copies: {-(n-1)/2 … +(n-1)/2}, always 0 when n==1.
func offsetFor(i, n int) float64 {
	return float64(i) - float64(n-1)/2.0
}
