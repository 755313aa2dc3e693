package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// Serve runs handler on addr until ctx is cancelled, then shuts down gracefully.
// ready, when non-nil, receives the bound address once the listener is open.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Long-lived streams end with ctx instead of holding up Shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Serve(ln)
	}()

	logger.Info("Server listening", "addr", ln.Addr().String())
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		return nil
	}
}
