// Package session loads a YAML session file describing a topology and
// builds the corresponding core.EngineSpec, core.Engine, and core.Topology.
// Construction happens once, before streaming begins: nothing in this
// package can add a component after a session has been built, consistent
// with the engine's Non-goal on dynamic topology mutation while streaming.
package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agalue/rynth/internal/components"
	"github.com/agalue/rynth/internal/core"
)

// ModulatorSpec describes one low-frequency oscillator modulator.
type ModulatorSpec struct {
	Name      string  `yaml:"name"`
	Frequency float32 `yaml:"frequency"`
}

// ModulationSpec binds a named modulator to one of an oscillator's
// parameters with a dimensionless amount.
type ModulationSpec struct {
	Modulator string  `yaml:"modulator"`
	Amount    float32 `yaml:"amount"`
}

// OscillatorSpec describes one reference sine oscillator and the
// modulations bound to its Frequency and Level parameters.
type OscillatorSpec struct {
	Frequency          float32          `yaml:"frequency"`
	Level              float32          `yaml:"level"`
	FrequencyModulations []ModulationSpec `yaml:"frequency_modulations"`
	LevelModulations     []ModulationSpec `yaml:"level_modulations"`
}

// File is the top-level shape of a session YAML document.
type File struct {
	SamplingRate   uint32           `yaml:"sampling_rate"`
	ModulationRate uint32           `yaml:"modulation_rate"`
	Channels       uint16           `yaml:"channels"`
	MaxBlockSize   int              `yaml:"max_block_size"`
	Modulators     []ModulatorSpec  `yaml:"modulators"`
	Oscillators    []OscillatorSpec `yaml:"oscillators"`
}

// Load reads and parses the session file at path, then builds a fresh
// Engine and Topology from it. If maxBlockSizeOverride is nonzero, it
// replaces the session file's max_block_size (the CLI's --max-block-size
// flag).
func Load(path string, maxBlockSizeOverride int) (core.EngineSpec, *core.Engine, *core.Topology, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return core.EngineSpec{}, nil, nil, fmt.Errorf("session: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return core.EngineSpec{}, nil, nil, fmt.Errorf("session: parse %s: %w", path, err)
	}
	if maxBlockSizeOverride != 0 {
		f.MaxBlockSize = maxBlockSizeOverride
	}

	return Build(f)
}

// Build constructs an EngineSpec, Engine, and Topology from an already
// parsed File.
func Build(f File) (core.EngineSpec, *core.Engine, *core.Topology, error) {
	spec, err := core.NewEngineSpec(core.SamplingRate(f.SamplingRate), core.ModulationRate(f.ModulationRate), core.Channels(f.Channels), f.MaxBlockSize)
	if err != nil {
		return core.EngineSpec{}, nil, nil, fmt.Errorf("session: %w", err)
	}

	engine, topology := core.NewSession(spec)

	modulatorIDs := make(map[string]core.ModulatorID, len(f.Modulators))
	for _, m := range f.Modulators {
		if _, exists := modulatorIDs[m.Name]; exists {
			return core.EngineSpec{}, nil, nil, fmt.Errorf("session: duplicate modulator name %q", m.Name)
		}
		lfo := components.NewLowFrequencyOscillator(m.Frequency, spec.ModulationRate)
		modulatorIDs[m.Name] = topology.AddModulator(lfo)
	}

	resolve := func(name string) (core.ModulatorID, error) {
		id, ok := modulatorIDs[name]
		if !ok {
			return 0, fmt.Errorf("session: unknown modulator %q", name)
		}
		return id, nil
	}

	for _, o := range f.Oscillators {
		osc := components.NewOscillator(o.Frequency, spec.SamplingRate)
		osc.Level.SetBase(o.Level)

		for _, mod := range o.FrequencyModulations {
			id, err := resolve(mod.Modulator)
			if err != nil {
				return core.EngineSpec{}, nil, nil, err
			}
			osc.Frequency.AddModulation(id, mod.Amount)
		}
		for _, mod := range o.LevelModulations {
			id, err := resolve(mod.Modulator)
			if err != nil {
				return core.EngineSpec{}, nil, nil, err
			}
			osc.Level.AddModulation(id, mod.Amount)
		}

		topology.AddComponent(osc)
	}

	return spec, engine, topology, nil
}
