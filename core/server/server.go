package server

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/pixeltool/presenced/core/logger"
)

// Server owns an http.Server lifecycle: start, run under a context, and
// graceful shutdown within a configured grace period. Safe for concurrent use.
type Server struct {
	mu             sync.RWMutex
	addr           string
	server         *http.Server
	logger         *slog.Logger
	shutdown       time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
	maxHeaderBytes int
	tlsConfig      *tls.Config
	running        bool
}

// New creates a Server bound to addr. Without options it logs nowhere and
// uses the package defaults for every timeout.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:           addr,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		shutdown:       DefaultShutdownTimeout,
		readTimeout:    DefaultReadTimeout,
		writeTimeout:   DefaultWriteTimeout,
		idleTimeout:    DefaultIdleTimeout,
		maxHeaderBytes: DefaultMaxHeaderBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// httpServer builds the underlying http.Server from the current settings.
// Caller must hold s.mu.
func (s *Server) httpServer(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:           s.addr,
		Handler:        handler,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		TLSConfig:      s.tlsConfig,
	}
}

// Start serves requests until the context is canceled or the listener fails.
// It returns ctx.Err() on cancellation; pair it with Stop for a graceful
// drain. Starting an already running server returns ErrServerAlreadyRunning.
func (s *Server) Start(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrServerAlreadyRunning
	}
	s.running = true
	s.server = s.httpServer(handler)
	serve := s.server.ListenAndServe
	if s.tlsConfig != nil {
		srv := s.server
		serve = func() error { return srv.ListenAndServeTLS("", "") }
	}
	s.mu.Unlock()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "http server listening",
		slog.String("addr", s.addr))

	failed := make(chan error, 1)
	go func() {
		if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop drains in-flight requests within the shutdown grace period.
// A server that was never started is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	s.logger.Info("draining http server", logger.Duration(s.shutdown))

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.running = false
	if err != nil {
		s.logger.Error("http server shutdown", logger.Error(err))
		return err
	}

	s.logger.Info("http server stopped")
	return nil
}

// Run adapts the server to errgroup.Group: the returned function serves until
// ctx is canceled, then drains and reports nil so a clean shutdown does not
// fail the group.
func (s *Server) Run(ctx context.Context, handler http.Handler) func() error {
	return func() error {
		done := make(chan error, 1)
		go func() {
			done <- s.Start(ctx, handler)
		}()

		select {
		case <-ctx.Done():
			if err := s.Stop(); err != nil {
				s.logger.Error("stopping http server on cancellation", logger.Error(err))
			}
			<-done
			return nil
		case err := <-done:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}
