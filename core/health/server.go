// Package health serves the liveness probe and Prometheus metrics next to the bot.
package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
)

// AliveText is the body returned by every liveness request.
const AliveText = "Bot is alive!"

const (
	defaultShutdownTimeout = 5 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

// Options configures the liveness server.
type Options struct {
	Listen  string
	Port    int
	Metrics bool
	// ShutdownTimeout bounds graceful shutdown once the run context ends.
	ShutdownTimeout time.Duration
}

// Server is an HTTP server independent from the Telegram runtime.
type Server struct {
	addr     string
	shutdown time.Duration
	srv      *http.Server
}

// NewServer builds the router and the underlying http.Server.
func NewServer(opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	addr := net.JoinHostPort(opts.Listen, fmt.Sprint(opts.Port))
	return &Server{
		addr:     addr,
		shutdown: opts.ShutdownTimeout,
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(opts.Metrics),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// NewRouter answers GET and HEAD on any path with AliveText; /metrics serves Prometheus when enabled.
func NewRouter(withMetrics bool) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)

	if withMetrics {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}
	r.Get("/*", alive)
	return r
}

func alive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, AliveText)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.addr }

// Run listens on the configured address and serves until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("health: listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger.Health.Info("listening",
		slog.String("event", "health.start"),
		slog.String("addr", ln.Addr().String()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("health: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdown)
	defer cancel()
	err := s.srv.Shutdown(shutdownCtx)
	<-errCh
	logger.Health.Info("stopped",
		slog.String("event", "health.stop"),
		slog.String("status", logger.Status(err)),
	)
	return err
}
