package arrow

import "math"

// Waveform selects the shape an Osc generates.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSawtooth
	WaveSquare
	WaveNoise
)

// Osc is a phase-accumulating oscillator. Its frequency child arrow is
// evaluated once per sample and integrated into a [0,1) phase; the
// waveform function maps phase to a signal in [-1,1]. For WaveSquare,
// width is also evaluated once per sample and names the duty-cycle
// threshold the phase is compared against (phase < width emits +1,
// otherwise -1) — every other waveform ignores it.
type Osc struct {
	freq     Arrow
	width    Arrow
	wave     Waveform
	phase    float64
	rate     float64
	freqBuf  []float64
	widthBuf []float64
	rngState uint64
}

// NewOsc builds an oscillator of the given waveform. A nil width
// defaults to a constant 0.5, a symmetric square wave.
func NewOsc(freq, width Arrow, wave Waveform) *Osc {
	if width == nil {
		width = NewConst(0.5)
	}
	return &Osc{
		freq:     freq,
		width:    width,
		wave:     wave,
		rate:     44100,
		freqBuf:  make([]float64, MaxBlockSize),
		widthBuf: make([]float64, MaxBlockSize),
		rngState: 0x2545F4914F6CDD1D,
	}
}

func (o *Osc) SetSampleRate(rate float64) {
	o.rate = rate
	setRateOfChildren(rate, o.freq, o.width)
}

func (o *Osc) Process(inputs, outputs []float64) {
	n := len(outputs)
	freqs := o.freqBuf[:n]
	widths := o.widthBuf[:n]
	o.freq.Process(inputs, freqs)
	o.width.Process(inputs, widths)
	if o.rate <= 0 {
		o.rate = 44100
	}
	for i := 0; i < n; i++ {
		outputs[i] = o.sample(o.phase, widths[i])
		o.phase += freqs[i] / o.rate
		o.phase -= math.Floor(o.phase)
	}
}

func (o *Osc) sample(phase, width float64) float64 {
	switch o.wave {
	case WaveSine:
		return math.Sin(2 * math.Pi * phase)
	case WaveTriangle:
		return 4*math.Abs(phase-math.Floor(phase+0.5)) - 1
	case WaveSawtooth:
		return 2*phase - 1
	case WaveSquare:
		if phase < width {
			return 1
		}
		return -1
	case WaveNoise:
		o.rngState ^= o.rngState << 13
		o.rngState ^= o.rngState >> 7
		o.rngState ^= o.rngState << 17
		return 2*(float64(o.rngState>>11)/float64(1<<53)) - 1
	default:
		return 0
	}
}
