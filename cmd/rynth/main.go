// Command rynth loads a session file describing a modular synthesis
// topology and either renders it offline to a WAV file or streams it live
// to the default output device.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/agalue/rynth/internal/config"
	"github.com/agalue/rynth/internal/device"
	"github.com/agalue/rynth/internal/render"
	"github.com/agalue/rynth/internal/session"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	log.Printf("session: loading %s", cfg.SessionPath)
	spec, engine, topology, err := session.Load(cfg.SessionPath, cfg.MaxBlockSize)
	if err != nil {
		log.Fatalf("session error: %v", err)
	}
	if cfg.Verbose {
		log.Printf("session: %d Hz, %d Hz modulation, %d channel(s), period %d samples", spec.SamplingRate, spec.ModulationRate, spec.Channels, spec.ModulationPeriod)
	}

	switch cfg.Command {
	case config.CommandRender:
		if err := render.ToWAV(cfg.OutPath, spec, engine, topology, cfg.Duration); err != nil {
			log.Fatalf("render error: %v", err)
		}
		log.Printf("render: wrote %s", cfg.OutPath)

	case config.CommandPlay:
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			log.Println("play: received shutdown signal")
			cancel()
		}()

		if err := device.Stream(ctx, spec, engine, topology); err != nil {
			log.Fatalf("device error: %v", err)
		}
	}
}
