package main

import (
	"context"
	"errors"

	"github.com/lox/quickrand/cmd/quickrand/shared"
	"github.com/lox/quickrand/internal/spawner"
	"github.com/lox/quickrand/internal/stream"
	"github.com/lox/quickrand/rng"
)

// PipeCmd runs an external test battery with the stream on its stdin, for
// example: quickrand pipe -- RNG_test stdin64
type PipeCmd struct {
	Seed       string   `kong:"help='Seed, decimal or 0x hex up to 128 bits (default: config, then clock)'"`
	BufferSize int      `kong:"help='Write buffer size in bytes (default: config, then 8192)'"`
	Limit      int64    `kong:"help='Stop after this many bytes, 0 for no limit'"`
	Command    []string `kong:"arg,passthrough,help='Command and arguments to run'"`
}

func (c *PipeCmd) Run(g *Globals) error {
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

	proc := spawner.NewProcess(c.Command[0], c.Command[1:],
		map[string]string{"QUICKRAND_SEED": seed.String()}, logger)

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	n, err := spawner.Pipe(ctx, proc, rng.New(seed), opts, logger)
	if errors.Is(err, context.Canceled) {
		logger.Info().Int64("bytes", n).Msg("Pipe interrupted")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info().Int64("bytes", n).Msg("Pipe finished")
	return nil
}
