// Package listener runs the service's HTTP server under the Fx
// lifecycle: listen on start, serve in the background, drain on stop.
package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ReadHeaderTimeout is the timeout for reading request headers.
const ReadHeaderTimeout = 10 * time.Second

// ErrEmptyAddress is returned when the listen address is empty.
var ErrEmptyAddress = errors.New("address must not be empty")

// ErrNilHandler is returned when a nil http.Handler is provided.
var ErrNilHandler = errors.New("handler must not be nil")

// ErrListenFailed is returned when the server fails to listen on the
// configured address.
var ErrListenFailed = errors.New("failed to listen")

// ErrShutdownFailed is returned when the server fails to shut down
// gracefully.
var ErrShutdownFailed = errors.New("shutdown failed")

// Server manages the HTTP server lifecycle.
type Server struct {
	server     *http.Server
	listener   net.Listener
	onServeErr func()
}

// NewServer creates a Server for the given handler and listen address.
// The onServeErr callback, if non-nil, is called when the background
// Serve goroutine fails, so the application can trigger shutdown.
func NewServer(handler http.Handler, addr string, onServeErr func()) (*Server, error) {
	if addr == "" {
		return nil, ErrEmptyAddress
	}

	if handler == nil {
		return nil, ErrNilHandler
	}

	return &Server{
		server: &http.Server{ //nolint:exhaustruct // only relevant fields needed
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		onServeErr: onServeErr,
	}, nil
}

// Addr returns the bound address once Start has succeeded. Useful when
// listening on port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}

	return s.listener.Addr().String()
}

// Start begins listening and serves requests in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	listenCfg := net.ListenConfig{} //nolint:exhaustruct // zero-value defaults are fine

	lis, err := listenCfg.Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		slog.Error("listener: failed to listen", "address", s.server.Addr, "error", err)

		return fmt.Errorf("%w: %w", ErrListenFailed, err)
	}

	s.listener = lis

	slog.Info("listener: serving", "address", lis.Addr().String())

	go func() {
		serveErr := s.server.Serve(lis)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("listener: serve failed", "error", serveErr)

			if s.onServeErr != nil {
				s.onServeErr()
			}
		}
	}()

	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	slog.Info("listener: stopping")

	err := s.server.Shutdown(ctx)
	if err != nil {
		slog.Error("listener: shutdown failed", "error", err)

		return fmt.Errorf("%w: %w", ErrShutdownFailed, err)
	}

	return nil
}
