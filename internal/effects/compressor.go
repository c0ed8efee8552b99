package effects

import "math"

// CompressorEffect is a feedforward peak compressor: an envelope
// follower per channel feeding a static knee-less gain curve above
// threshold.
type CompressorEffect struct {
	threshold float32
	ratio     float32
	attack    float32 // one-pole coefficient
	release   float32 // one-pole coefficient
	makeup    float32
	envL      float32
	envR      float32
}

// NewCompressorEffect builds a compressor effect.
//   - thresholdDB: threshold in dB (e.g. -20)
//   - ratio: compression ratio (e.g. 4 for 4:1)
//   - attackMs, releaseMs: envelope follower times in ms
//   - makeupDB: makeup gain in dB, applied after compression
func NewCompressorEffect(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float32) *CompressorEffect {
	sr := float64(sampleRate)
	return &CompressorEffect{
		threshold: dbToLinear(thresholdDB),
		ratio:     ratio,
		attack:    onePoleCoefficient(float64(attackMs), sr),
		release:   onePoleCoefficient(float64(releaseMs), sr),
		makeup:    dbToLinear(makeupDB),
	}
}

func (c *CompressorEffect) Process(l, r float32) (float32, float32) {
	c.envL = followEnvelope(c.envL, l, c.attack, c.release)
	c.envR = followEnvelope(c.envR, r, c.attack, c.release)
	return l * c.gainFor(c.envL) * c.makeup, r * c.gainFor(c.envR) * c.makeup
}

func (c *CompressorEffect) gainFor(env float32) float32 {
	if env <= c.threshold || c.threshold <= 0 {
		return 1.0
	}
	over := env / c.threshold
	return float32(math.Pow(float64(over), float64(1.0/c.ratio-1)))
}

func (c *CompressorEffect) Reset() {
	c.envL = 0
	c.envR = 0
}

func followEnvelope(env, in, attack, release float32) float32 {
	absIn := float32(math.Abs(float64(in)))
	if absIn > env {
		return env + attack*(absIn-env)
	}
	return env + release*(absIn-env)
}

func dbToLinear(db float32) float32 {
	return float32(math.Pow(10, float64(db)/20))
}

func onePoleCoefficient(timeMs, sampleRate float64) float32 {
	return float32(1.0 - math.Exp(-1.0/(timeMs*sampleRate/1000.0)))
}
