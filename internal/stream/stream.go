// Package stream writes a generator's raw output to a byte sink, for piping
// into external statistical test suites.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/lox/quickrand/rng"
)

// DefaultBufferSize is the chunk size used when Options.BufferSize is zero.
const DefaultBufferSize = 8 * 1024

// Options controls a streaming run.
type Options struct {
	// BufferSize is rounded up to a whole number of words so that the stream
	// is exactly the little-endian word sequence.
	BufferSize int
	// Limit stops the stream after this many bytes. Zero means unlimited.
	Limit int64
	// ProgressEvery logs a debug line after this many bytes. Zero disables it.
	ProgressEvery int64
}

// Run writes little-endian words from r to w until the limit is reached, the
// context is cancelled or the reader on the other end of a pipe goes away.
// It returns the number of bytes written.
//
// A closed pipe ends the stream without error. Cancellation returns ctx.Err().
func Run(ctx context.Context, w io.Writer, r *rng.Rng, opts Options, logger zerolog.Logger) (int64, error) {
	size := opts.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	size = (size + 7) &^ 7
	buf := make([]byte, size)

	logger.Debug().
		Int("buffer_size", size).
		Int64("limit", opts.Limit).
		Msg("Starting stream")

	var written, nextProgress int64
	nextProgress = opts.ProgressEvery

	for {
		if err := ctx.Err(); err != nil {
			logger.Debug().Int64("bytes", written).Msg("Stream cancelled")
			return written, err
		}

		chunk := buf
		if opts.Limit > 0 {
			remaining := opts.Limit - written
			if remaining <= 0 {
				logger.Debug().Int64("bytes", written).Msg("Stream limit reached")
				return written, nil
			}
			if remaining < int64(len(chunk)) {
				chunk = chunk[:remaining]
			}
		}

		r.Fill(chunk)
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			if errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe) {
				logger.Debug().Int64("bytes", written).Msg("Reader closed the stream")
				return written, nil
			}
			return written, fmt.Errorf("write failed after %d bytes: %w", written, err)
		}

		if opts.ProgressEvery > 0 && written >= nextProgress {
			logger.Debug().Int64("bytes", written).Msg("Stream progress")
			nextProgress += opts.ProgressEvery
		}
	}
}
