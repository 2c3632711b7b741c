// Package server assembles the HTTP surface of the sidenotes daemon.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/sidenotes/internal/relay"
	"github.com/iudanet/sidenotes/internal/server/handlers"
	"github.com/iudanet/sidenotes/internal/server/middleware"
)

// Routes
const (
	HealthPath = "/api/v1/health"
	RelayPath  = "/api/v1/relay"
)

// Config содержит параметры HTTP сервера
type Config struct {
	Addr            string
	Version         string
	OriginPatterns  []string
	JWT             handlers.JWTConfig
	RateWindow      time.Duration
	ShutdownTimeout time.Duration
	RateLimit       int
}

// Server serves the health check and the websocket relay.
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	limiter    *middleware.RateLimiter
	baseCancel context.CancelFunc
	cfg        Config
}

// New creates the server. Relay commands go to dispatcher, events come from bus.
func New(cfg Config, logger *slog.Logger, dispatcher handlers.Dispatcher, bus *relay.Bus, prober handlers.StorageProber) *Server {
	s := &Server{
		logger: logger,
		cfg:    cfg,
	}

	health := handlers.NewHealthHandler(logger, prober, cfg.Version)
	relayHandler := handlers.NewRelayHandler(logger, dispatcher, bus, cfg.OriginPatterns)

	var relayChain http.Handler = http.HandlerFunc(relayHandler.Relay)
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, logger)
		relayChain = middleware.RateLimitMiddleware(s.limiter, logger)(relayChain)
	}
	// auth выполняется раньше rate limit, чтобы лимит считался на endpoint
	if cfg.JWT.Enabled() {
		relayChain = middleware.AuthMiddleware(logger, cfg.JWT)(relayChain)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+HealthPath, health.Health)
	mux.Handle("GET "+RelayPath, relayChain)

	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(logger, []string{HealthPath})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	// базовый контекст отменяется при остановке и закрывает websocket соединения
	baseCtx, baseCancel := context.WithCancel(context.Background())
	s.baseCancel = baseCancel
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}

	return s
}

// Handler returns the root handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens on the configured address until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Server listening", "addr", ln.Addr().String(), "auth", s.cfg.JWT.Enabled())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	err := s.shutdown()
	<-errCh
	return err
}

func (s *Server) shutdown() error {
	defer s.stop()

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Shutdown не ждет hijacked соединения, их закрывает отмена базового контекста
	s.baseCancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) stop() {
	s.baseCancel()
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
