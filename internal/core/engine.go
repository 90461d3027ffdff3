package core

import "fmt"

// Engine is the scheduler: it holds the audio clock, the modulation clock,
// and the immutable EngineSpec, and interleaves modulation ticks with audio
// production across arbitrary caller-chosen block sizes.
//
// An Engine and the Topology it drives are meant to be owned by a single
// goroutine for the lifetime of a streaming session (see spec.md §5);
// Advance performs no allocation, locking, or I/O in steady state.
type Engine struct {
	Spec EngineSpec

	currentAudioSample           AudioSampleIndex
	currentModulationSample      ModulationSampleIndex
	lastAudioSampleWithModulation AudioSampleIndex
}

// NewEngine builds an Engine for the given spec. Audio and modulation
// clocks both start at 0; no modulation tick has been applied yet.
func NewEngine(spec EngineSpec) *Engine {
	return &Engine{Spec: spec}
}

// NewSession builds a fresh Engine and an empty Topology sharing the same
// spec, the Go analogue of the reference implementation's empty_engine.
func NewSession(spec EngineSpec) (*Engine, *Topology) {
	return NewEngine(spec), NewTopology(spec)
}

// Advance fills out with the next len(out)/Spec.Channels frames of audio,
// splitting the request at modulation-tick boundaries per spec.md §4.5.
// out's length must be a multiple of Spec.Channels and the resulting frame
// count must not exceed Spec.MaxSamplesPerStep; violating either is a
// precondition fault and panics.
func (e *Engine) Advance(topology *Topology, out []float32) {
	channels := int(e.Spec.Channels)
	if len(out)%channels != 0 {
		panic(fmt.Sprintf("core: Engine.Advance: buffer length %d is not a multiple of channel count %d", len(out), channels))
	}
	n := len(out) / channels
	if n > e.Spec.MaxSamplesPerStep {
		panic(fmt.Sprintf("core: Engine.Advance: frame count %d exceeds max samples per step %d", n, e.Spec.MaxSamplesPerStep))
	}
	if n == 0 {
		return
	}

	mono := topology.scratch[:n]

	if e.currentAudioSample == 0 {
		e.tick(topology)
	}

	start := e.currentAudioSample
	head := AudioSampleDifference(e.lastAudioSampleWithModulation.Add(e.Spec.ModulationPeriod).Sub(start))

	if uint64(head) >= uint64(n) {
		e.produce(topology, mono[:n])
		e.fanOut(mono, out)
		return
	}

	e.produce(topology, mono[:head])
	offset := int(head)
	remaining := n - offset

	for remaining > 0 {
		e.tick(topology)
		chunk := remaining
		if period := int(e.Spec.ModulationPeriod); chunk > period {
			chunk = period
		}
		e.produce(topology, mono[offset:offset+chunk])
		offset += chunk
		remaining -= chunk
	}

	e.fanOut(mono, out)
}

// tick applies one modulation tick at the current audio-sample index: every
// modulator advances, then every audio component refreshes its parameters.
func (e *Engine) tick(topology *Topology) {
	for _, m := range topology.Modulators.All() {
		m.ProcessModulation(e.currentModulationSample)
	}
	for _, c := range topology.Components.All() {
		c.ApplyModulations(&topology.Modulators, e.currentAudioSample)
	}
	e.lastAudioSampleWithModulation = e.currentAudioSample
	e.currentModulationSample++
}

// produce fills segment (length b-a, where a is the engine's current audio
// sample) by zeroing it and then letting every audio component add into it
// in insertion order, per spec.md §4.5.2.
func (e *Engine) produce(topology *Topology, segment []float32) {
	if len(segment) == 0 {
		return
	}
	for i := range segment {
		segment[i] = 0
	}
	start := e.currentAudioSample
	end := start.Add(AudioSampleDifference(len(segment)))
	for _, c := range topology.Components.All() {
		c.ProcessAudio(segment, start, end)
	}
	e.currentAudioSample = end
}

// fanOut duplicates each mono sample across every output channel of its
// frame. This is the engine's only multi-channel operation.
func (e *Engine) fanOut(mono []float32, out []float32) {
	channels := int(e.Spec.Channels)
	i := 0
	for _, s := range mono {
		for c := 0; c < channels; c++ {
			out[i] = s
			i++
		}
	}
}
