package core

// Topology owns the sets of audio and modulation components for a session,
// issues stable identifiers for cross-referencing, and holds the scratch
// mono buffer the engine mixes into. It is constructed once, populated via
// AddComponent/AddModulator, and then handed to an Engine; once streaming
// begins only Engine.Advance may touch it.
type Topology struct {
	scratch     []float32
	Components  ComponentStore[AudioComponent, AudioComponentID]
	Modulators  ComponentStore[ModulationComponent, ModulatorID]
}

// NewTopology allocates a Topology whose scratch buffer is sized to
// spec.MaxSamplesPerStep and reused across every Advance call.
func NewTopology(spec EngineSpec) *Topology {
	return &Topology{
		scratch: make([]float32, spec.MaxSamplesPerStep),
	}
}

// AddComponent takes ownership of an audio component and returns its id.
func (t *Topology) AddComponent(c AudioComponent) AudioComponentID {
	return t.Components.Add(c)
}

// AddModulator takes ownership of a modulation component and returns its
// id.
func (t *Topology) AddModulator(m ModulationComponent) ModulatorID {
	return t.Modulators.Add(m)
}

// GetModulator looks up a modulation component by id. It returns false for
// an id the topology never issued.
func (t *Topology) GetModulator(id ModulatorID) (ModulationComponent, bool) {
	return t.Modulators.Get(id)
}
