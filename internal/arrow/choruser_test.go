package arrow

import "testing"

// chorusVoice returns a fresh Const-driven oscillator plus the Const
// itself, standing in for a compiled voice subtree and its captured
// "freq"-style target.
func chorusVoice() (Arrow, *Const) {
	c := NewConst(440)
	return NewOsc(c, nil, WaveSine), c
}

func TestChoruserSingleCopyIsIdenticalToPlainSubtree(t *testing.T) {
	plainOsc, plainConst := chorusVoice()
	plainOsc.SetSampleRate(44100)
	plainConst.Set(440)
	plainOut := make([]float64, 16)
	plainOsc.Process(nil, plainOut)

	choirOsc, choirConst := chorusVoice()
	ch := NewChoruser([]Arrow{choirOsc}, [][]Settable{{choirConst}}, 25)
	ch.SetSampleRate(44100)
	ch.Set(440)
	choirOut := make([]float64, 16)
	ch.Process(nil, choirOut)

	for i := range plainOut {
		if plainOut[i] != choirOut[i] {
			t.Fatalf("n=1 choruser out[%d] = %v, want bitwise-identical %v", i, choirOut[i], plainOut[i])
		}
	}
}

func TestChoruserZeroCentsIsIdenticalToPlainSubtree(t *testing.T) {
	plainOsc, plainConst := chorusVoice()
	plainOsc.SetSampleRate(44100)
	plainConst.Set(440)
	plainOut := make([]float64, 16)
	plainOsc.Process(nil, plainOut)

	var copies []Arrow
	var targets [][]Settable
	for i := 0; i < 5; i++ {
		osc, c := chorusVoice()
		copies = append(copies, osc)
		targets = append(targets, []Settable{c})
	}
	ch := NewChoruser(copies, targets, 0)
	ch.SetSampleRate(44100)
	ch.Set(440)
	choirOut := make([]float64, 16)
	ch.Process(nil, choirOut)

	for i := range plainOut {
		if plainOut[i] != choirOut[i] {
			t.Fatalf("cents=0 choruser out[%d] = %v, want bitwise-identical %v", i, choirOut[i], plainOut[i])
		}
	}
}

func TestChoruserDetunesSymmetricallyAroundCenter(t *testing.T) {
	var copies []Arrow
	var targets [][]Settable
	for i := 0; i < 3; i++ {
		osc, c := chorusVoice()
		copies = append(copies, osc)
		targets = append(targets, []Settable{c})
	}
	ch := NewChoruser(copies, targets, 1200) // one octave per offset step
	ch.Set(440)

	if targets[0][0].Value() != 220 {
		t.Fatalf("lowest copy = %v, want 220 (one octave down)", targets[0][0].Value())
	}
	if targets[1][0].Value() != 440 {
		t.Fatalf("center copy = %v, want 440 (no detune)", targets[1][0].Value())
	}
	if targets[2][0].Value() != 880 {
		t.Fatalf("highest copy = %v, want 880 (one octave up)", targets[2][0].Value())
	}
}
