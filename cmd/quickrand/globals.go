package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/lox/quickrand/cmd/quickrand/shared"
	"github.com/lox/quickrand/internal/config"
	"github.com/lox/quickrand/internal/randutil"
	"github.com/lox/quickrand/rng"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config   string           `kong:"default='quickrand.hcl',type='path',help='HCL config file (ignored if missing)'"`
	Debug    bool             `kong:"help='Enable debug logging'"`
	JSONLogs bool             `kong:"name='json-logs',help='Log JSON to stderr'"`
	NoColor  bool             `kong:"help='Disable colored output'"`
	Version  kong.VersionFlag `kong:"short='v',help='Show version'"`
}

func (g *Globals) logger() zerolog.Logger {
	if g.JSONLogs {
		return shared.SetupStructuredLogger(g.Debug)
	}
	return shared.SetupLogger(g.Debug)
}

func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// setupRendering drops to plain ASCII when asked or when the environment
// disables color.
func (g *Globals) setupRendering() {
	if g.NoColor || termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// resolveSeed picks the flag, then the config file, then the clock.
func resolveSeed(flag, fromConfig string, logger zerolog.Logger) (rng.Seed, error) {
	for _, s := range []string{flag, fromConfig} {
		if s == "" {
			continue
		}
		seed, err := rng.ParseSeed(s)
		if err != nil {
			return rng.Seed{}, fmt.Errorf("invalid seed %q: %w", s, err)
		}
		logger.Debug().Stringer("seed", seed).Msg("Using deterministic seed")
		return seed, nil
	}

	seed := randutil.TimeSeed()
	logger.Info().Stringer("seed", seed).Msg("Using random seed")
	return seed, nil
}
