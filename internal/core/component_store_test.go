package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentStoreAssignsDenseInsertionOrderIDs(t *testing.T) {
	var store ComponentStore[ModulationComponent, ModulatorID]

	id0 := store.Add(&fixedLevelModulator{level: 0})
	id1 := store.Add(&fixedLevelModulator{level: 1})
	id2 := store.Add(&fixedLevelModulator{level: 2})

	assert.Equal(t, ModulatorID(0), id0)
	assert.Equal(t, ModulatorID(1), id1)
	assert.Equal(t, ModulatorID(2), id2)
	assert.Equal(t, 3, store.Len())

	for i, want := range []float32{0, 1, 2} {
		got, ok := store.Get(ModulatorID(i))
		assert.True(t, ok)
		assert.Equal(t, want, got.CurrentLevel())
	}
}

func TestComponentStoreGetOutOfRangeIsDangling(t *testing.T) {
	var store ComponentStore[ModulationComponent, ModulatorID]
	store.Add(&fixedLevelModulator{level: 0})

	_, ok := store.Get(ModulatorID(5))
	assert.False(t, ok)

	_, ok = store.Get(ModulatorID(-1))
	assert.False(t, ok)
}

func TestComponentStoreIterationOrderIsInsertionOrder(t *testing.T) {
	var store ComponentStore[ModulationComponent, ModulatorID]
	store.Add(&fixedLevelModulator{level: 3})
	store.Add(&fixedLevelModulator{level: 1})
	store.Add(&fixedLevelModulator{level: 2})

	var levels []float32
	for _, m := range store.All() {
		levels = append(levels, m.CurrentLevel())
	}

	assert.Equal(t, []float32{3, 1, 2}, levels)
}
