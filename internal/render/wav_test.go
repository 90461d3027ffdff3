package render_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agalue/rynth/internal/components"
	"github.com/agalue/rynth/internal/core"
	"github.com/agalue/rynth/internal/render"
)

func buildReferenceSine(t *testing.T) (core.EngineSpec, *core.Engine, *core.Topology) {
	t.Helper()
	spec, err := core.NewEngineSpec(48000, 100, 1, 1000)
	require.NoError(t, err)

	engine, topology := core.NewSession(spec)
	osc := components.NewOscillator(400, spec.SamplingRate)
	osc.Level.SetBase(0.75)
	topology.AddComponent(osc)

	return spec, engine, topology
}

func TestToWAVWritesCanonicalHeader(t *testing.T) {
	spec, engine, topology := buildReferenceSine(t)
	path := filepath.Join(t.TempDir(), "out.wav")

	require.NoError(t, render.ToWAV(path, spec, engine, topology, 100*time.Millisecond))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 44)

	assert.Equal(t, "RIFF", string(raw[0:4]))
	assert.Equal(t, "WAVE", string(raw[8:12]))
	assert.Equal(t, "fmt ", string(raw[12:16]))
	assert.EqualValues(t, 16, binary.LittleEndian.Uint32(raw[16:20]))
	assert.EqualValues(t, 3, binary.LittleEndian.Uint16(raw[20:22])) // IEEE float
	assert.EqualValues(t, 1, binary.LittleEndian.Uint16(raw[22:24]))
	assert.EqualValues(t, 48000, binary.LittleEndian.Uint32(raw[24:28]))
	assert.EqualValues(t, 32, binary.LittleEndian.Uint16(raw[34:36]))
	assert.Equal(t, "data", string(raw[36:40]))

	dataSize := binary.LittleEndian.Uint32(raw[40:44])
	assert.EqualValues(t, len(raw)-44, dataSize)
}

func TestToWAVSampleDataMatchesEngineOutputBitExactly(t *testing.T) {
	spec, engine, topology := buildReferenceSine(t)
	path := filepath.Join(t.TempDir(), "out.wav")

	const duration = 50 * time.Millisecond
	require.NoError(t, render.ToWAV(path, spec, engine, topology, duration))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	samples := raw[44:]

	// Independently render the same topology directly through the engine
	// and assert the WAV's encoded floats are bit-identical, i.e. the file
	// writer introduces no rounding or reordering of its own.
	refSpec, refEngine, refTopology := buildReferenceSine(t)
	totalFrames := int(float64(duration) / float64(time.Second) * float64(refSpec.SamplingRate))
	want := make([]float32, totalFrames*int(refSpec.Channels))
	written := 0
	for written < len(want) {
		chunk := refSpec.MaxSamplesPerStep
		if remaining := len(want) - written; remaining < chunk {
			chunk = remaining
		}
		refEngine.Advance(refTopology, want[written:written+chunk])
		written += chunk
	}

	require.Equal(t, len(want)*4, len(samples))
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(samples[i*4:]))
		assert.Equalf(t, w, got, "sample %d", i)
	}
}

func TestToWAVIsDeterministicAcrossRenders(t *testing.T) {
	dir := t.TempDir()

	render1 := func() []byte {
		spec, engine, topology := buildReferenceSine(t)
		path := filepath.Join(dir, "first.wav")
		require.NoError(t, render.ToWAV(path, spec, engine, topology, 75*time.Millisecond))
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		return raw
	}

	first := render1()

	spec, engine, topology := buildReferenceSine(t)
	path := filepath.Join(dir, "second.wav")
	require.NoError(t, render.ToWAV(path, spec, engine, topology, 75*time.Millisecond))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second, "rendering the same topology twice must be byte-identical")
}

func TestToWAVWithFrequencyModulationStaysBounded(t *testing.T) {
	spec, err := core.NewEngineSpec(48000, 100, 1, 1000)
	require.NoError(t, err)

	engine, topology := core.NewSession(spec)
	osc := components.NewOscillator(400, spec.SamplingRate)
	osc.Level.SetBase(0.75)
	lfo := components.NewLowFrequencyOscillator(5, spec.ModulationRate)
	modID := topology.AddModulator(lfo)
	osc.Frequency.AddModulation(modID, 50)
	topology.AddComponent(osc)

	path := filepath.Join(t.TempDir(), "fm.wav")
	require.NoError(t, render.ToWAV(path, spec, engine, topology, 200*time.Millisecond))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Greater(t, len(raw), 44)

	// Every encoded sample must be a finite value within the oscillator's
	// level: this guards the basic sanity of the render path with
	// modulation wired in. It does not compare against a golden file.
	samples := raw[44:]
	for i := 0; i < len(samples); i += 4 {
		s := math.Float32frombits(binary.LittleEndian.Uint32(samples[i:]))
		assert.False(t, math.IsNaN(float64(s)))
		assert.LessOrEqual(t, math.Abs(float64(s)), 1.0001)
	}
}
