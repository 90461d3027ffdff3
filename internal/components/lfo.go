package components

import (
	"math"

	"github.com/agalue/rynth/internal/core"
)

// LowFrequencyOscillator is a sine ModulationComponent that runs on the
// modulation clock. Its Frequency parameter is expressed in Hz, bounded to
// [0, 300], and is read from Base (not FinalValue) on every modulation
// tick — an LFO's own rate is not itself modulatable by another modulator
// in this spec, mirroring the reference implementation.
type LowFrequencyOscillator struct {
	Frequency core.Parameter

	currentLevel float32
	modulationRate core.ModulationRate
}

// NewLowFrequencyOscillator builds an LFO at the given base frequency,
// ticking at modulationRate.
func NewLowFrequencyOscillator(frequency float32, modulationRate core.ModulationRate) *LowFrequencyOscillator {
	return &LowFrequencyOscillator{
		Frequency:      core.NewParameter(frequency, 0, 300),
		modulationRate: modulationRate,
	}
}

// ProcessModulation advances the LFO by one modulation tick, computing
// sin(2π·f·(m mod modulation_rate)/modulation_rate).
func (l *LowFrequencyOscillator) ProcessModulation(sample core.ModulationSampleIndex) {
	omega := 2 * math.Pi * float64(l.Frequency.Base())
	rate := float64(l.modulationRate)
	t := math.Mod(float64(sample), rate) / rate
	l.currentLevel = float32(math.Sin(t * omega))
}

// CurrentLevel returns the most recently computed bipolar level.
func (l *LowFrequencyOscillator) CurrentLevel() float32 {
	return l.currentLevel
}
