package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/propbind/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/propbind/pkg/adapters/mcp"
	"github.com/aretw0/propbind/pkg/inspect"
	"github.com/aretw0/propbind/pkg/observability"
	"github.com/aretw0/propbind/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// MCP transports accepted by ServeMCP.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Serve runs the inspection API until ctx is cancelled, then shuts down gracefully.
// Every key served is recorded on the registry exposed at /metrics.
func Serve(ctx context.Context, addr string, src ports.Source, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	handler := httpAdapter.NewHandler(src,
		httpAdapter.WithMetrics(reg),
		httpAdapter.WithLifecycleHooks(metrics.Hooks()),
		httpAdapter.WithLogger(logger),
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting inspection server", "addr", addr, "source", src.String())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown did not complete", "error", err)
			return srv.Close()
		}
		logger.Info("inspection server stopped")
		return nil
	}
}

// MCPOptions selects the transport of ServeMCP.
type MCPOptions struct {
	Transport string
	// Addr is the listen address of the SSE transport.
	Addr string
	In   io.Reader
	Out  io.Writer
}

// ServeMCP exposes src to MCP clients until ctx is cancelled.
func ServeMCP(ctx context.Context, opts MCPOptions, src ports.Source, logger *slog.Logger) error {
	srv := mcpAdapter.NewServer(
		inspect.New(src, inspect.WithLifecycleHooks(observability.DebugHooks(logger))),
		mcpAdapter.WithLogger(logger),
	)
	switch opts.Transport {
	case TransportStdio:
		logger.Info("starting MCP server (stdio)", "source", src.String())
		return srv.ServeStdio(ctx, opts.In, opts.Out)
	case TransportSSE:
		return srv.ServeSSE(ctx, opts.Addr)
	default:
		return fmt.Errorf("unknown MCP transport %q (want %s or %s)", opts.Transport, TransportStdio, TransportSSE)
	}
}
