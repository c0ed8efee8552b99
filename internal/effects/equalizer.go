package effects

import (
	"math"
	"sync/atomic"
)

// EqualizerEffect is a 5-band equalizer split at four fixed crossover
// points, with runtime-adjustable gains. Gains are stored as bit-cast
// float32 atomics — the same lock-free-retune pattern
// arrow.EnvelopeNode uses for its ADSR parameters — so a controller can
// ride a band's gain from another goroutine without locking the render
// path.
type EqualizerEffect struct {
	gains  [5]atomic.Uint32 // float32 bit patterns; 1.0 = unity
	alphas [4]float32       // one-pole crossover coefficients
	lpL    [4]float32
	lpR    [4]float32
}

var equalizerCrossoversHz = [4]float64{200, 800, 2500, 8000}

// NewEqualizerEffect builds a 5-band equalizer with every band at unity
// gain.
func NewEqualizerEffect(sampleRate int) *EqualizerEffect {
	eq := &EqualizerEffect{}
	dt := 1.0 / float64(sampleRate)
	for i, freq := range equalizerCrossoversHz {
		rc := 1.0 / (2.0 * math.Pi * freq)
		eq.alphas[i] = float32(dt / (rc + dt))
	}
	for i := range eq.gains {
		eq.gains[i].Store(math.Float32bits(1.0))
	}
	return eq
}

// SetGain sets band's gain (0-4, low to high). 1.0 is unity, 0.0 is
// silence, 2.0 is roughly +6dB.
func (eq *EqualizerEffect) SetGain(band int, gain float32) {
	if band >= 0 && band < len(eq.gains) {
		eq.gains[band].Store(math.Float32bits(gain))
	}
}

// Gain returns band's current gain.
func (eq *EqualizerEffect) Gain(band int) float32 {
	if band >= 0 && band < len(eq.gains) {
		return math.Float32frombits(eq.gains[band].Load())
	}
	return 1.0
}

func (eq *EqualizerEffect) Process(l, r float32) (float32, float32) {
	var bandL, bandR [5]float32
	remL, remR := l, r
	for i := range equalizerCrossoversHz {
		eq.lpL[i] += eq.alphas[i] * (remL - eq.lpL[i])
		eq.lpR[i] += eq.alphas[i] * (remR - eq.lpR[i])
		bandL[i] = eq.lpL[i]
		bandR[i] = eq.lpR[i]
		remL -= bandL[i]
		remR -= bandR[i]
	}
	bandL[4] = remL
	bandR[4] = remR

	var outL, outR float32
	for i := range bandL {
		g := eq.Gain(i)
		outL += bandL[i] * g
		outR += bandR[i] * g
	}
	return outL, outR
}

func (eq *EqualizerEffect) Reset() {
	for i := range eq.lpL {
		eq.lpL[i] = 0
		eq.lpR[i] = 0
	}
}
