package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultShutdownTimeout bounds graceful shutdown when no timeout is configured
const DefaultShutdownTimeout = 30 * time.Second

// ShutdownFunc is a function to call during shutdown
type ShutdownFunc func(context.Context) error

// ServeUntilDone runs server until ctx is cancelled, then shuts it down
// gracefully and runs the shutdown functions in order.
//
// Callers usually derive ctx from signal.NotifyContext so SIGINT/SIGTERM
// trigger the shutdown.
func ServeUntilDone(ctx context.Context, server *http.Server, logger *Logger, timeout time.Duration, shutdownFuncs ...ShutdownFunc) error {
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", server.Addr).Info("HTTP server listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Starting graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown error")
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	var errs []error
	for i, fn := range shutdownFuncs {
		if err := fn(shutdownCtx); err != nil {
			logger.WithError(err).Errorf("Shutdown function %d failed", i)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors: %w", len(errs), errors.Join(errs...))
	}

	logger.Info("Graceful shutdown complete")
	return nil
}
