package arrow

import (
	"math"
	"testing"
)

func TestConstOutputsFlatValue(t *testing.T) {
	c := NewConst(0.5)
	out := make([]float64, 8)
	c.Process(nil, out)
	for i, v := range out {
		if v != 0.5 {
			t.Fatalf("out[%d] = %v, want 0.5", i, v)
		}
	}
	c.Set(0.25)
	c.Process(nil, out)
	if out[0] != 0.25 {
		t.Fatalf("after Set, out[0] = %v, want 0.25", out[0])
	}
}

func TestConstOctaveAndCent(t *testing.T) {
	oct := NewConstOctave(1)
	out := make([]float64, 1)
	oct.Process(nil, out)
	if math.Abs(out[0]-2.0) > 1e-9 {
		t.Fatalf("octave(1) = %v, want 2.0", out[0])
	}

	cent := NewConstCent(1200)
	cent.Process(nil, out)
	if math.Abs(out[0]-2.0) > 1e-9 {
		t.Fatalf("cent(1200) = %v, want 2.0", out[0])
	}
}

func TestSumAddsChildren(t *testing.T) {
	s := NewSum(NewConst(1), NewConst(2), NewConst(3))
	out := make([]float64, 4)
	s.Process(nil, out)
	for _, v := range out {
		if v != 6 {
			t.Fatalf("sum = %v, want 6", v)
		}
	}
}

func TestProdMultipliesChildren(t *testing.T) {
	p := NewProd(NewConst(2), NewConst(3))
	out := make([]float64, 4)
	p.Process(nil, out)
	for _, v := range out {
		if v != 6 {
			t.Fatalf("prod = %v, want 6", v)
		}
	}
}

func TestProdWithNoChildrenIsSilent(t *testing.T) {
	p := NewProd()
	out := []float64{1, 1, 1}
	p.Process(nil, out)
	for _, v := range out {
		if v != 0 {
			t.Fatalf("empty prod = %v, want 0", v)
		}
	}
}

func TestGateClosedIsSilentWithoutDrivingInner(t *testing.T) {
	calls := 0
	probe := arrowFunc(func(in, out []float64) {
		calls++
		for i := range out {
			out[i] = 1
		}
	})
	g := NewGate(probe)
	out := make([]float64, 4)
	g.Process(nil, out)
	for _, v := range out {
		if v != 0 {
			t.Fatalf("closed gate out = %v, want 0", v)
		}
	}
	if calls != 0 {
		t.Fatalf("closed gate must not call inner.Process, got %d calls", calls)
	}

	g.Open()
	g.Process(nil, out)
	if calls != 1 {
		t.Fatalf("open gate should call inner.Process once, got %d", calls)
	}
	for _, v := range out {
		if v != 1 {
			t.Fatalf("open gate out = %v, want 1", v)
		}
	}
}

func TestEnvelopeAttackDecaySustainRelease(t *testing.T) {
	e := NewEnvelopeNode(0.1, 0.1, 0.5, 0.1)
	e.SetSampleRate(10) // 10Hz -> 0.1s per sample, one sample per ADSR segment boundary
	if e.Stage() != StageClosed {
		t.Fatalf("new envelope should start Closed")
	}

	started := false
	e.OnStart(func() { started = true })
	finished := false
	e.OnFinish(func() { finished = true })

	e.Open()
	out := make([]float64, 1)

	e.Process(nil, out) // sample 0 of attack: t=0 -> level 0
	if !started {
		t.Fatalf("OnStart should fire on first sample after Open")
	}
	if out[0] != 0 {
		t.Fatalf("first attack sample = %v, want 0", out[0])
	}

	e.Process(nil, out) // now in decay
	if e.Stage() != StageDecay {
		t.Fatalf("stage after one full attack period = %v, want Decay", e.Stage())
	}

	e.Process(nil, out) // now in sustain
	if e.Stage() != StageSustain {
		t.Fatalf("stage after one full decay period = %v, want Sustain", e.Stage())
	}
	if math.Abs(out[0]-0.5) > 1e-9 {
		t.Fatalf("sustain level = %v, want 0.5", out[0])
	}

	e.Close()
	if e.Stage() != StageRelease {
		t.Fatalf("stage after Close = %v, want Release", e.Stage())
	}
	e.Process(nil, out)
	e.Process(nil, out)
	if e.Stage() != StageClosed {
		t.Fatalf("stage after release period elapses = %v, want Closed", e.Stage())
	}
	if !finished {
		t.Fatalf("OnFinish should fire when release completes")
	}
}

func TestCrossfadeAtEndpoints(t *testing.T) {
	cf := NewCrossfade(NewConst(10), NewConst(20), NewConst(0))
	out := make([]float64, 1)
	cf.Process(nil, out)
	if out[0] != 10 {
		t.Fatalf("crossfade(mix=0) = %v, want 10", out[0])
	}

	cf2 := NewCrossfade(NewConst(10), NewConst(20), NewConst(1))
	cf2.Process(nil, out)
	if out[0] != 20 {
		t.Fatalf("crossfade(mix=1) = %v, want 20", out[0])
	}
}

func TestCrossfadeEqPowPreservesPowerAtMidpoint(t *testing.T) {
	cf := NewCrossfadeEqPow(NewConst(1), NewConst(1), NewConst(0.5))
	out := make([]float64, 1)
	cf.Process(nil, out)
	if math.Abs(out[0]-math.Sqrt2) > 1e-9 {
		t.Fatalf("eq-pow crossfade at mid = %v, want sqrt(2)", out[0])
	}
}

func TestEventUsingArrowDerivesFromBoundEvent(t *testing.T) {
	n := NewEventUsingArrow(func(ev *MusicEvent) float64 { return ev.Sustain })
	out := make([]float64, 4)
	n.Process(nil, out)
	for _, v := range out {
		if v != 0 {
			t.Fatalf("unbound EventUsingArrow = %v, want 0", v)
		}
	}

	n.Bind(&MusicEvent{Notes: []int{60}, Sustain: 0.75})
	n.Process(nil, out)
	for _, v := range out {
		if v != 0.75 {
			t.Fatalf("bound EventUsingArrow = %v, want 0.75", v)
		}
	}

	n.Bind(nil)
	n.Process(nil, out)
	if out[0] != 0 {
		t.Fatalf("after Bind(nil), out[0] = %v, want 0", out[0])
	}
}

func TestOscSquareWidthIsEvaluatedPerSample(t *testing.T) {
	// One cycle per 4 samples; width held at 0.25 means only the first
	// of every 4 samples should read +1.
	o := NewOsc(NewConst(1), NewConst(0.25), WaveSquare)
	o.SetSampleRate(4)
	out := make([]float64, 4)
	o.Process(nil, out)
	want := []float64{1, -1, -1, -1}
	for i, v := range out {
		if v != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestOscSquareDefaultWidthIsSymmetric(t *testing.T) {
	o := NewOsc(NewConst(1), nil, WaveSquare)
	o.SetSampleRate(4)
	out := make([]float64, 4)
	o.Process(nil, out)
	want := []float64{1, 1, -1, -1}
	for i, v := range out {
		if v != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestLineRampsThenHolds(t *testing.T) {
	l := NewLine(0, 1, 1.0)
	l.SetSampleRate(4)
	out := make([]float64, 8)
	l.Process(nil, out)
	if out[0] != 0 {
		t.Fatalf("line t=0 = %v, want 0", out[0])
	}
	if out[4] != 1 {
		t.Fatalf("line after full duration = %v, want 1 (held)", out[4])
	}
}

// arrowFunc adapts a plain function to the Arrow interface for tests
// that need to observe whether Process was actually invoked.
type arrowFunc func(inputs, outputs []float64)

func (f arrowFunc) Process(inputs, outputs []float64) { f(inputs, outputs) }
func (f arrowFunc) SetSampleRate(float64)             {}
