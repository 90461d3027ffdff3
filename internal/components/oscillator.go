// Package components provides the reference AudioComponent and
// ModulationComponent implementations spec.md §4.6 defines to anchor the
// core engine's tests: a phase-continuous sine oscillator, a modulation-rate
// low-frequency oscillator, and two minimal fixtures (a constant generator
// and an alternating modulator) used across the engine's scenario tests.
package components

import (
	"math"

	"github.com/agalue/rynth/internal/core"
)

// Oscillator is a sine-wave AudioComponent with two modulatable parameters,
// Frequency (Hz, [0, 20000]) and Level ([0, 1]). It preserves phase
// continuity across a frequency change so a modulation tick never produces
// an audible click.
type Oscillator struct {
	Frequency core.Parameter
	Level     core.Parameter

	phaseOffset  float32
	samplingRate core.SamplingRate
}

// NewOscillator builds an Oscillator at the given base frequency, full
// level, sampling at samplingRate.
func NewOscillator(frequency float32, samplingRate core.SamplingRate) *Oscillator {
	return &Oscillator{
		Frequency:    core.NewParameter(frequency, 0, 20000),
		Level:        core.NewParameter(1, 0, 1),
		samplingRate: samplingRate,
	}
}

// ProcessAudio adds sin(2π·f·t + phaseOffset)·level into buf for each
// sample index in [start, end). Agnostic to block size: the only state it
// reads is frequency.FinalValue, level.FinalValue, and phaseOffset, none of
// which change except on a modulation tick.
func (o *Oscillator) ProcessAudio(buf []float32, start, end core.AudioSampleIndex) {
	freq := o.Frequency.FinalValue()
	level := o.Level.FinalValue()
	sr := float32(o.samplingRate)
	omega := 2 * math.Pi * float64(freq)
	cycleLength := sr / freq

	n := uint64(end.Sub(start))
	for i := uint64(0); i < n; i++ {
		sampleIndex := float32(uint64(start) + i)
		t := float32(math.Mod(float64(sampleIndex), float64(cycleLength))) / sr
		buf[i] += float32(math.Sin(float64(t)*omega+float64(o.phaseOffset))) * level
	}
}

// ApplyModulations refreshes Frequency and Level from the modulator
// registry. Because a frequency change would otherwise discontinue the
// oscillator's phase mid-stream, it first captures the phase the old
// frequency would have reached at sample, updates Frequency, then adjusts
// phaseOffset so the new frequency's phase at sample matches exactly.
func (o *Oscillator) ApplyModulations(modulators *core.ComponentStore[core.ModulationComponent, core.ModulatorID], sample core.AudioSampleIndex) {
	sr := float32(o.samplingRate)
	n := float32(uint64(sample))

	oldFreq := o.Frequency.FinalValue()
	oldCycleLength := sr / oldFreq
	oldT := float32(math.Mod(float64(n), float64(oldCycleLength))) / sr
	oldPhase := 2*float32(math.Pi)*oldFreq*oldT + o.phaseOffset

	o.Frequency.ApplyModulations(modulators)

	newFreq := o.Frequency.FinalValue()
	newCycleLength := sr / newFreq
	newT := float32(math.Mod(float64(n), float64(newCycleLength))) / sr
	newPhaseContribution := 2 * float32(math.Pi) * newFreq * newT

	o.phaseOffset = oldPhase - newPhaseContribution

	o.Level.ApplyModulations(modulators)
}
