// Package core implements the engine scheduler, the parameter/modulation
// model, and the audio/modulation component contracts that every other
// package in this module plugs into. It is allocation-free on the
// streaming hot path and has no third-party dependencies.
package core

import "fmt"

// AudioSampleIndex is a position on the audio clock. It starts at 0 and is
// monotonically increasing for the lifetime of an Engine.
type AudioSampleIndex uint64

// AudioSampleDifference is a count of audio frames, where one frame is one
// time instant shared across all channels.
type AudioSampleDifference uint64

// Add returns the index reached by advancing i by d audio frames.
func (i AudioSampleIndex) Add(d AudioSampleDifference) AudioSampleIndex {
	return i + AudioSampleIndex(d)
}

// Sub returns the number of frames between i and j, where i >= j.
func (i AudioSampleIndex) Sub(j AudioSampleIndex) AudioSampleDifference {
	if i < j {
		panic(fmt.Sprintf("core: AudioSampleIndex.Sub: %d < %d", i, j))
	}
	return AudioSampleDifference(i - j)
}

// ModulationSampleIndex is a position on the modulation clock. It starts at
// 0 and advances by one per modulation tick.
type ModulationSampleIndex uint64

// Channels is a positive output channel count.
type Channels uint16

// SamplingRate is the audio clock rate, in Hz.
type SamplingRate uint32

// ModulationRate is the modulation clock rate, in Hz.
type ModulationRate uint32

// EngineSpec is the immutable configuration shared by an Engine and the
// Topology it drives. It is produced once by NewEngineSpec and never
// mutated.
type EngineSpec struct {
	SamplingRate     SamplingRate
	ModulationRate   ModulationRate
	ModulationPeriod AudioSampleDifference
	Channels         Channels
	MaxSamplesPerStep int
}

// NewEngineSpec validates and builds an EngineSpec. It fails (a
// configuration fault, per spec.md §7) if samplingRate is not a positive
// multiple of modulationRate, or if any field is zero.
func NewEngineSpec(samplingRate SamplingRate, modulationRate ModulationRate, channels Channels, maxSamplesPerStep int) (EngineSpec, error) {
	if samplingRate == 0 {
		return EngineSpec{}, fmt.Errorf("core: sampling rate must be positive")
	}
	if modulationRate == 0 {
		return EngineSpec{}, fmt.Errorf("core: modulation rate must be positive")
	}
	if channels == 0 {
		return EngineSpec{}, fmt.Errorf("core: channel count must be positive")
	}
	if maxSamplesPerStep <= 0 {
		return EngineSpec{}, fmt.Errorf("core: max samples per step must be positive")
	}
	if uint32(samplingRate)%uint32(modulationRate) != 0 {
		return EngineSpec{}, fmt.Errorf("core: sampling rate %d is not a multiple of modulation rate %d", samplingRate, modulationRate)
	}

	period := AudioSampleDifference(uint32(samplingRate) / uint32(modulationRate))

	return EngineSpec{
		SamplingRate:      samplingRate,
		ModulationRate:    modulationRate,
		ModulationPeriod:  period,
		Channels:          channels,
		MaxSamplesPerStep: maxSamplesPerStep,
	}, nil
}
