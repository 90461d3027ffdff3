package components

import "github.com/agalue/rynth/internal/core"

// ConstantGenerator is an AudioComponent that adds its Level parameter's
// final value into every sample of every block. Useful on its own as a DC
// source, and as the simplest possible fixture for exercising the engine's
// modulation-grid and clamping invariants.
type ConstantGenerator struct {
	Level core.Parameter
}

// NewConstantGenerator builds a ConstantGenerator at the given base level,
// bounded to [-1, 1].
func NewConstantGenerator(level float32) *ConstantGenerator {
	return &ConstantGenerator{Level: core.NewParameter(level, -1, 1)}
}

// ProcessAudio adds Level.FinalValue() into every sample of buf.
func (g *ConstantGenerator) ProcessAudio(buf []float32, _, _ core.AudioSampleIndex) {
	v := g.Level.FinalValue()
	for i := range buf {
		buf[i] += v
	}
}

// ApplyModulations refreshes Level from the modulator registry.
func (g *ConstantGenerator) ApplyModulations(modulators *core.ComponentStore[core.ModulationComponent, core.ModulatorID], _ core.AudioSampleIndex) {
	g.Level.ApplyModulations(modulators)
}

// AlternatingModulator is a ModulationComponent whose level flips sign on
// every modulation tick: +1, -1, +1, -1, …. It exists solely to give the
// engine's scenario tests a fully deterministic, non-oscillator modulator.
type AlternatingModulator struct {
	currentLevel float32
}

// NewAlternatingModulator builds an AlternatingModulator starting at level.
func NewAlternatingModulator(level float32) *AlternatingModulator {
	return &AlternatingModulator{currentLevel: level}
}

// ProcessModulation flips the sign of the current level.
func (m *AlternatingModulator) ProcessModulation(_ core.ModulationSampleIndex) {
	m.currentLevel = -m.currentLevel
}

// CurrentLevel returns the most recently computed level.
func (m *AlternatingModulator) CurrentLevel() float32 {
	return m.currentLevel
}
