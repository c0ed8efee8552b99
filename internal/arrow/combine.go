package arrow

// Sum adds the outputs of its children sample-by-sample.
type Sum struct {
	children []Arrow
	scratch  []float64
}

func NewSum(children ...Arrow) *Sum {
	return &Sum{children: children, scratch: make([]float64, MaxBlockSize)}
}

func (s *Sum) Process(inputs, outputs []float64) {
	n := len(outputs)
	for i := 0; i < n; i++ {
		outputs[i] = 0
	}
	if len(s.children) == 0 {
		return
	}
	scratch := s.scratch[:n]
	for _, c := range s.children {
		c.Process(inputs, scratch)
		for i := 0; i < n; i++ {
			outputs[i] += scratch[i]
		}
	}
}

func (s *Sum) SetSampleRate(rate float64) { setRateOfChildren(rate, s.children...) }

// Prod multiplies the outputs of its children sample-by-sample.
type Prod struct {
	children []Arrow
	scratch  []float64
}

func NewProd(children ...Arrow) *Prod {
	return &Prod{children: children, scratch: make([]float64, MaxBlockSize)}
}

func (p *Prod) Process(inputs, outputs []float64) {
	n := len(outputs)
	if len(p.children) == 0 {
		for i := 0; i < n; i++ {
			outputs[i] = 0
		}
		return
	}
	for i := 0; i < n; i++ {
		outputs[i] = 1
	}
	scratch := p.scratch[:n]
	for _, c := range p.children {
		c.Process(inputs, scratch)
		for i := 0; i < n; i++ {
			outputs[i] *= scratch[i]
		}
	}
}

func (p *Prod) SetSampleRate(rate float64) { setRateOfChildren(rate, p.children...) }

// Compose feeds the output of "inner" as the input to "outer": outer(inner(x)).
type Compose struct {
	outer, inner Arrow
	scratch      []float64
}

func NewCompose(outer, inner Arrow) *Compose {
	return &Compose{outer: outer, inner: inner, scratch: make([]float64, MaxBlockSize)}
}

func (c *Compose) Process(inputs, outputs []float64) {
	n := len(outputs)
	scratch := c.scratch[:n]
	c.inner.Process(inputs, scratch)
	c.outer.Process(scratch, outputs)
}

func (c *Compose) SetSampleRate(rate float64) { setRateOfChildren(rate, c.inner, c.outer) }
