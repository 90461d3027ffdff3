package core

import "fmt"

// modulation is a single bound modulation contribution: a modulator id, the
// user-chosen amount, and the contribution cached from the modulator's last
// ApplyModulations pass.
type modulation struct {
	modulator          ModulatorID
	amount             float32
	cachedContribution float32
}

// Parameter is a scalar value with fixed bounds, a list of bound modulation
// contributions, and a cached final value. It has no timing knowledge of
// its own; something else (an AudioComponent) decides when to call
// ApplyModulations.
type Parameter struct {
	base          float32
	min           float32
	max           float32
	modulations   []modulation
	totalModulation float32
	final         float32
}

// NewParameter builds a Parameter with the given base value and bounds. It
// panics (a precondition fault) if min > max or value is outside [min, max].
func NewParameter(value, min, max float32) Parameter {
	if min > max {
		panic(fmt.Sprintf("core: Parameter: min %v > max %v", min, max))
	}
	if value < min || value > max {
		panic(fmt.Sprintf("core: Parameter: value %v outside [%v, %v]", value, min, max))
	}
	return Parameter{base: value, min: min, max: max, final: value}
}

// SetBase updates the parameter's base (center) value. It panics if value is
// outside [min, max]. final_value is recomputed immediately from the
// currently cached modulation total.
func (p *Parameter) SetBase(value float32) {
	if value < p.min || value > p.max {
		panic(fmt.Sprintf("core: Parameter.SetBase: value %v outside [%v, %v]", value, p.min, p.max))
	}
	p.base = value
	p.updateFinal()
}

// Base returns the parameter's current base value.
func (p *Parameter) Base() float32 {
	return p.base
}

// Min returns the parameter's lower bound.
func (p *Parameter) Min() float32 {
	return p.min
}

// Max returns the parameter's upper bound.
func (p *Parameter) Max() float32 {
	return p.max
}

// AddModulation binds a modulator to this parameter with a dimensionless
// amount. Duplicate bindings (the same modulator id added twice) are
// permitted; their contributions sum. No recomputation of final_value
// happens until ApplyModulations runs.
func (p *Parameter) AddModulation(modulator ModulatorID, amount float32) {
	p.modulations = append(p.modulations, modulation{modulator: modulator, amount: amount})
}

// FinalValue returns the cached, clamped value. It performs no computation.
func (p *Parameter) FinalValue() float32 {
	return p.final
}

// ApplyModulations maps each bound modulator's bipolar level into this
// parameter's domain, scales by the bound amount, sums the contributions,
// and clamps base+total into [min, max]. It panics with a "dangling
// modulator id" fault if a bound modulator is absent from registry.
func (p *Parameter) ApplyModulations(registry *ComponentStore[ModulationComponent, ModulatorID]) {
	var total float32
	for i := range p.modulations {
		m := &p.modulations[i]
		modulator, ok := registry.Get(m.modulator)
		if !ok {
			panic(fmt.Sprintf("core: Parameter.ApplyModulations: dangling modulator id %v", m.modulator))
		}
		level := modulator.CurrentLevel()
		mapped := (level+1)/2*(p.max-p.min) + p.min
		m.cachedContribution = mapped * m.amount
		total += m.cachedContribution
	}
	p.totalModulation = total
	p.updateFinal()
}

func (p *Parameter) updateFinal() {
	v := p.base + p.totalModulation
	switch {
	case v < p.min:
		v = p.min
	case v > p.max:
		v = p.max
	}
	p.final = v
}
