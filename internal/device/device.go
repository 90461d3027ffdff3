// Package device bridges the core engine to a real playback device. This is
// the one external collaborator spec.md §1 calls out explicitly: device
// discovery and the realtime callback that forwards buffers to the engine.
package device

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"math"

	"github.com/gen2brain/malgo"
	"github.com/google/uuid"

	"github.com/agalue/rynth/internal/core"
)

// Stream opens a playback device at spec's sampling rate and channel count
// and drives engine.Advance from its realtime callback until ctx is
// cancelled. The callback never allocates: out is sized once, up front, to
// spec.MaxSamplesPerStep frames, matching the core's own allocation-free
// steady state (spec.md §5).
//
// Cancelling ctx only requests the device to stop; an Advance call already
// in flight always runs to completion first.
func Stream(ctx context.Context, spec core.EngineSpec, engine *core.Engine, topology *core.Topology) error {
	sessionID := uuid.New()

	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("device: initialize audio context: %w", err)
	}
	defer func() {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
	}()

	periodMs := uint32(spec.MaxSamplesPerStep) * 1000 / uint32(spec.SamplingRate)
	if periodMs == 0 {
		periodMs = 1
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(spec.Channels)
	deviceConfig.SampleRate = uint32(spec.SamplingRate)
	deviceConfig.PeriodSizeInMilliseconds = periodMs

	maxFrames := spec.MaxSamplesPerStep * int(spec.Channels)
	out := make([]float32, maxFrames)

	onSendFrames := func(outputSamples, _ []byte, frameCount uint32) {
		// A precondition fault (e.g. a dangling modulator id) must not take
		// the whole process down with it; recovering here keeps the stream
		// alive for diagnostics instead of crashing the audio thread.
		defer func() {
			if r := recover(); r != nil {
				log.Printf("device[%s]: recovered panic in playback callback: %v", sessionID, r)
			}
		}()

		total := int(frameCount) * int(spec.Channels)

		written := 0
		for written < total {
			chunk := total - written
			if chunk > maxFrames {
				chunk = maxFrames
			}
			engine.Advance(topology, out[:chunk])
			writeFloat32LE(outputSamples[written*4:(written+chunk)*4], out[:chunk])
			written += chunk
		}
	}

	dev, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSendFrames})
	if err != nil {
		return fmt.Errorf("device: initialize playback device: %w", err)
	}
	defer dev.Uninit()

	if err := dev.Start(); err != nil {
		return fmt.Errorf("device: start playback device: %w", err)
	}
	log.Printf("device[%s]: streaming at %d Hz, %d channel(s), %d samples/step", sessionID, spec.SamplingRate, spec.Channels, spec.MaxSamplesPerStep)

	<-ctx.Done()
	log.Printf("device[%s]: stopping", sessionID)
	return dev.Stop()
}

func writeFloat32LE(dst []byte, src []float32) {
	for i, s := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(s))
	}
}
