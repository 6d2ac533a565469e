// Package api serves the emission engine over HTTP with JSON request and
// response bodies.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/rshade/carbonfocus/internal/config"
	"github.com/rshade/carbonfocus/internal/engine"
	"github.com/rshade/carbonfocus/internal/engine/batch"
)

// HTTP server timeouts.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

// ErrNilEngine is returned by New without an engine.
var ErrNilEngine = errors.New("api server requires an engine")

// Server is the carbonfocus HTTP API.
type Server struct {
	engine  *engine.Engine
	batch   *batch.Processor
	cache   *estimateCache
	cfg     config.ServerConfig
	logger  zerolog.Logger
	metrics *Metrics
	limiter *RateLimiter
	version string
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the base logger for request logging.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics supplies the metrics collectors. By default the server creates its own.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithVersion sets the version reported by /healthz.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New builds a Server. Call Close (or Serve to completion) to release the
// rate limiter.
func New(eng *engine.Engine, cfg config.ServerConfig, opts ...Option) (*Server, error) {
	if eng == nil {
		return nil, ErrNilEngine
	}
	proc, err := batch.NewProcessor(eng)
	if err != nil {
		return nil, fmt.Errorf("creating batch processor: %w", err)
	}
	cache, err := newEstimateCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating estimate cache: %w", err)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = config.DefaultShutdownTimeout
	}

	s := &Server{
		engine:  eng,
		batch:   proc,
		cache:   cache,
		cfg:     cfg,
		logger:  zerolog.Nop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if cfg.RateLimit > 0 {
		s.limiter = NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.Burst, cfg.TrustProxy, s.metrics.RateLimited.Inc)
	}

	s.handler = s.routes()
	return s, nil
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "POST /api/calculate", s.handleCalculate)
	s.handle(mux, "POST /api/calculate/batch", s.handleCalculateBatch)
	s.handle(mux, "POST /api/transport", s.handleTransport)
	s.handle(mux, "POST /api/energy", s.handleEnergy)
	s.handle(mux, "POST /api/food", s.handleFood)
	s.handle(mux, "GET /api/factors", s.handleFactors)
	s.handle(mux, "GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var h http.Handler = mux
	h = RequestSizeLimiter(s.cfg.MaxBodyBytes)(h)
	if s.limiter != nil {
		h = s.limiter.Middleware(h)
	}
	h = Recover(h)
	h = AccessLog(s.cfg.TrustProxy)(h)
	h = RequestID(s.logger)(h)
	return h
}

// handle registers fn under pattern and records request metrics for it.
func (s *Server) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := newResponseWriter(w)
		fn(wrapped, r)
		s.metrics.ObserveRequest(pattern, r.Method, wrapped.statusCode, time.Since(start))
	}))
}

// Run listens on the configured address and serves until ctx is cancelled.
// Cancellation before the listener opens is not an error.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.ListenAddr)
	if err != nil {
		s.Close()
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured timeout. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.Close()

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.logger.Info().
		Str("component", "api").
		Str("addr", ln.Addr().String()).
		Msg("listening")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Info().Str("component", "api").Msg("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close releases background resources.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
