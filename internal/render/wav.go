// Package render implements the offline/test interface from spec.md §6: it
// fills successive blocks from an Engine and writes the accumulated stream
// to a 32-bit float PCM WAV file for golden-file comparison.
package render

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/agalue/rynth/internal/core"
)

const (
	wavFormatIEEEFloat = 3
	bitsPerSample      = 32
	bytesPerSample     = bitsPerSample / 8
)

// ToWAV renders duration worth of audio from engine/topology, calling
// Advance with spec.MaxSamplesPerStep-sized buffers (the last one shorter
// when the frame total is not a multiple of that size), and writes the
// result as 32-bit float PCM to path.
func ToWAV(path string, spec core.EngineSpec, engine *core.Engine, topology *core.Topology, duration time.Duration) error {
	totalFrames := int(float64(duration) / float64(time.Second) * float64(spec.SamplingRate))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	channels := int(spec.Channels)
	dataSize := totalFrames * channels * bytesPerSample

	if err := writeHeader(f, spec, dataSize); err != nil {
		return fmt.Errorf("render: write header: %w", err)
	}

	buf := make([]float32, spec.MaxSamplesPerStep*channels)
	raw := make([]byte, len(buf)*bytesPerSample)

	log.Printf("render: writing %d frames (%s) to %s", totalFrames, duration, path)

	framesWritten := 0
	for framesWritten < totalFrames {
		frames := spec.MaxSamplesPerStep
		if remaining := totalFrames - framesWritten; remaining < frames {
			frames = remaining
		}

		out := buf[:frames*channels]
		engine.Advance(topology, out)

		encoded := raw[:len(out)*bytesPerSample]
		for i, s := range out {
			binary.LittleEndian.PutUint32(encoded[i*bytesPerSample:], math.Float32bits(s))
		}
		if _, err := f.Write(encoded); err != nil {
			return fmt.Errorf("render: write samples: %w", err)
		}

		framesWritten += frames
	}

	return nil
}

// writeHeader writes the 44-byte canonical WAV header for IEEE-float PCM.
func writeHeader(w io.Writer, spec core.EngineSpec, dataSize int) error {
	channels := uint16(spec.Channels)
	sampleRate := uint32(spec.SamplingRate)
	byteRate := sampleRate * uint32(channels) * bytesPerSample
	blockAlign := channels * bytesPerSample

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], wavFormatIEEEFloat)
	binary.LittleEndian.PutUint16(header[22:24], channels)
	binary.LittleEndian.PutUint32(header[24:28], sampleRate)
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	_, err := w.Write(header[:])
	return err
}
