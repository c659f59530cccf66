package spawner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/lox/quickrand/internal/stream"
	"github.com/lox/quickrand/rng"
)

// Pipe starts p and streams r into its stdin until the child stops reading,
// the limit is reached or ctx is cancelled. It then closes stdin, waits for
// the child and returns the number of bytes written.
func Pipe(ctx context.Context, p *Process, r *rng.Rng, opts stream.Options, logger zerolog.Logger) (int64, error) {
	stdin, err := p.Start(ctx)
	if err != nil {
		return 0, err
	}

	n, streamErr := stream.Run(ctx, stdin, r, opts, logger)
	if errors.Is(streamErr, os.ErrClosed) {
		// Wait closes stdin once the child has exited.
		streamErr = nil
	}
	if err := stdin.Close(); err != nil {
		logger.Debug().Err(err).Msg("Closing stdin")
	}

	if ctx.Err() != nil {
		if err := p.Stop(); err != nil {
			logger.Warn().Err(err).Msg("Failed to stop process")
		}
		_ = p.Wait()
		return n, ctx.Err()
	}
	if streamErr != nil {
		if err := p.Stop(); err != nil {
			logger.Warn().Err(err).Msg("Failed to stop process")
		}
		_ = p.Wait()
		return n, streamErr
	}

	if err := p.Wait(); err != nil {
		return n, fmt.Errorf("%s failed after reading %d bytes: %w", p.Command, n, err)
	}
	return n, nil
}
