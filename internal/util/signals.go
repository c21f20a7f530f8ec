package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler creates a context that is cancelled on receiving SIGINT or SIGTERM.
// Cancellation interrupts throttled submissions and shutdown waits; queued tasks
// still drain. A second signal forces immediate exit.
func SetupSignalHandler() context.Context {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return watchSignals(context.Background(), sigCh, os.Exit)
}

// watchSignals cancels the returned context on the first signal from sigCh
// and calls exit(1) on the second
func watchSignals(parent context.Context, sigCh <-chan os.Signal, exit func(int)) context.Context {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		sig := <-sigCh
		slog.Info("received interrupt, stopping submissions", "signal", sig.String())
		cancel()

		sig = <-sigCh
		slog.Warn("received second interrupt, forcing exit", "signal", sig.String())
		exit(1)
	}()

	return ctx
}
