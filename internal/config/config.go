// Package config provides command-line argument parsing for the rynth CLI.
package config

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
)

// Command selects which cmd/rynth subcommand to run.
type Command int

const (
	// CommandRender offline-renders a session to a WAV file and exits.
	CommandRender Command = iota
	// CommandPlay streams a session live to the default output device
	// until interrupted.
	CommandPlay
)

// Config holds the parsed CLI configuration for a single rynth invocation.
type Config struct {
	Command Command

	// SessionPath is the YAML file describing the topology to build; see
	// internal/session.
	SessionPath string

	// OutPath is the destination WAV file for the render command.
	OutPath string

	// Duration is how long to render, for the render command.
	Duration time.Duration

	// MaxBlockSize overrides the session file's max_block_size, 0 means
	// use the session file's value.
	MaxBlockSize int

	// Verbose makes cmd/rynth log the loaded session's rates, channel count
	// and modulation period. internal/device and internal/render log
	// regardless of it.
	Verbose bool
}

// ParseFlags parses os.Args[1:] into a Config. The first positional
// argument selects the subcommand ("render" or "play"); it is a
// configuration fault (returned error) to omit it or pass anything else.
func ParseFlags() (*Config, error) {
	if len(os.Args) < 2 {
		return nil, fmt.Errorf("config: missing subcommand, expected \"render\" or \"play\"")
	}

	var cmd Command
	switch os.Args[1] {
	case "render":
		cmd = CommandRender
	case "play":
		cmd = CommandPlay
	default:
		return nil, fmt.Errorf("config: unknown subcommand %q, expected \"render\" or \"play\"", os.Args[1])
	}

	fs := flag.NewFlagSet(os.Args[1], flag.ContinueOnError)
	cfg := &Config{Command: cmd}

	fs.StringVar(&cfg.SessionPath, "session", "", "path to the session YAML file describing the topology")
	fs.StringVar(&cfg.OutPath, "out", "out.wav", "destination WAV file (render only)")
	fs.DurationVar(&cfg.Duration, "duration", 5*time.Second, "render duration (render only)")
	fs.IntVar(&cfg.MaxBlockSize, "max-block-size", 0, "override the session's max block size (0 = use session file's value)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable progress logging")

	if err := fs.Parse(os.Args[2:]); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.SessionPath == "" {
		return nil, fmt.Errorf("config: --session is required")
	}

	return cfg, nil
}
