package main

import (
	"context"
	"errors"
	"os"

	"github.com/lox/quickrand/cmd/quickrand/shared"
	"github.com/lox/quickrand/internal/stream"
	"github.com/lox/quickrand/rng"
)

// StreamCmd writes the little-endian word stream to stdout.
type StreamCmd struct {
	Seed       string `kong:"help='Seed, decimal or 0x hex up to 128 bits (default: config, then clock)'"`
	BufferSize int    `kong:"help='Write buffer size in bytes (default: config, then 8192)'"`
	Limit      int64  `kong:"help='Stop after this many bytes, 0 for no limit'"`
}

func (c *StreamCmd) Run(g *Globals) error {
	logger := g.logger()

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	seed, err := resolveSeed(c.Seed, cfg.Seed, logger)
	if err != nil {
		return err
	}

	opts := stream.Options{
		BufferSize:    cfg.Stream.BufferSize,
		Limit:         cfg.Stream.Limit,
		ProgressEvery: 1 << 30,
	}
	if c.BufferSize > 0 {
		opts.BufferSize = c.BufferSize
	}
	if c.Limit > 0 {
		opts.Limit = c.Limit
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	n, err := stream.Run(ctx, os.Stdout, rng.New(seed), opts, logger)
	if errors.Is(err, context.Canceled) {
		logger.Info().Int64("bytes", n).Msg("Stream interrupted")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info().Int64("bytes", n).Msg("Stream finished")
	return nil
}
