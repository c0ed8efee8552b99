package arrow

import (
	"math"
	"sync/atomic"
)

// EnvelopeStage is a state in the ADSR state machine.
type EnvelopeStage int

const (
	StageClosed EnvelopeStage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

// EnvelopeNode is an ADSR envelope generator. Attack/Decay/Release are
// held in seconds, Sustain as a level in [0,1], all as atomic words so a
// controller can retune them without locking the render path. Time
// advances only from the sample count the node itself has processed —
// never from a wall clock — so the same block sequence always produces
// the same envelope, in tests and in the live render path alike.
type EnvelopeNode struct {
	attackBits, decayBits, sustainBits, releaseBits atomic.Uint64
	gateOpen                                        atomic.Bool

	rate    float64
	stage   EnvelopeStage
	t       float64 // seconds elapsed in the current stage
	level   float64 // level at which the current stage began (for release-from-anywhere)
	lastOut float64

	onStart  []func()
	onFinish []func()
	started  bool
}

// NewEnvelopeNode creates a closed envelope with the given ADSR settings.
func NewEnvelopeNode(attack, decay, sustain, release float64) *EnvelopeNode {
	e := &EnvelopeNode{rate: 44100, stage: StageClosed}
	e.SetAttack(attack)
	e.SetDecay(decay)
	e.SetSustain(sustain)
	e.SetRelease(release)
	return e
}

func (e *EnvelopeNode) SetAttack(v float64)  { e.attackBits.Store(math.Float64bits(v)) }
func (e *EnvelopeNode) SetDecay(v float64)   { e.decayBits.Store(math.Float64bits(v)) }
func (e *EnvelopeNode) SetSustain(v float64) { e.sustainBits.Store(math.Float64bits(v)) }
func (e *EnvelopeNode) SetRelease(v float64) { e.releaseBits.Store(math.Float64bits(v)) }

func (e *EnvelopeNode) Attack() float64  { return math.Float64frombits(e.attackBits.Load()) }
func (e *EnvelopeNode) Decay() float64   { return math.Float64frombits(e.decayBits.Load()) }
func (e *EnvelopeNode) Sustain() float64 { return math.Float64frombits(e.sustainBits.Load()) }
func (e *EnvelopeNode) Release() float64 { return math.Float64frombits(e.releaseBits.Load()) }

// OnStart registers a callback fired the sample the envelope leaves
// StageClosed. OnFinish registers one fired the sample it returns to
// StageClosed. Both fire at most once per open/close cycle, in
// registration order.
func (e *EnvelopeNode) OnStart(fn func())  { e.onStart = append(e.onStart, fn) }
func (e *EnvelopeNode) OnFinish(fn func()) { e.onFinish = append(e.onFinish, fn) }

// Open begins (or restarts) the attack stage.
func (e *EnvelopeNode) Open() {
	e.gateOpen.Store(true)
	e.stage = StageAttack
	e.t = 0
	e.started = false
}

// Close begins the release stage from whatever level the envelope is
// currently at.
func (e *EnvelopeNode) Close() {
	e.gateOpen.Store(false)
	if e.stage != StageClosed {
		e.stage = StageRelease
		e.t = 0
		e.level = e.lastOut
	}
}

func (e *EnvelopeNode) Stage() EnvelopeStage { return e.stage }

func (e *EnvelopeNode) SetSampleRate(rate float64) {
	if rate > 0 {
		e.rate = rate
	}
}

func (e *EnvelopeNode) Process(inputs, outputs []float64) {
	if e.rate <= 0 {
		e.rate = 44100
	}
	dt := 1.0 / e.rate
	for i := range outputs {
		outputs[i] = e.step(dt)
	}
}

func (e *EnvelopeNode) step(dt float64) float64 {
	if e.stage == StageClosed {
		e.lastOut = 0
		return 0
	}
	if !e.started {
		e.started = true
		for _, fn := range e.onStart {
			fn()
		}
	}

	var out float64
	switch e.stage {
	case StageAttack:
		a := e.Attack()
		if a <= 0 {
			out = 1
			e.stage = StageDecay
			e.t = 0
		} else {
			out = e.t / a
			if out >= 1 {
				out = 1
				e.stage = StageDecay
				e.t = 0
			}
		}
	case StageDecay:
		d := e.Decay()
		s := e.Sustain()
		if d <= 0 {
			out = s
			e.stage = StageSustain
			e.t = 0
		} else {
			frac := e.t / d
			if frac >= 1 {
				out = s
				e.stage = StageSustain
				e.t = 0
			} else {
				out = 1 + frac*(s-1)
			}
		}
	case StageSustain:
		out = e.Sustain()
	case StageRelease:
		r := e.Release()
		if r <= 0 {
			out = 0
		} else {
			frac := e.t / r
			if frac >= 1 {
				out = 0
			} else {
				out = e.level * (1 - frac)
			}
		}
		if out <= 0 {
			out = 0
			e.stage = StageClosed
			for _, fn := range e.onFinish {
				fn()
			}
		}
	}

	e.t += dt
	e.lastOut = out
	return out
}
