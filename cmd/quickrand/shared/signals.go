package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// SetupSignalHandler returns a context that is cancelled on SIGINT or SIGTERM.
// A second signal exits immediately.
func SetupSignalHandler(logger zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			return
		}

		<-sigChan
		os.Exit(130)
	}()

	return ctx, cancel
}
