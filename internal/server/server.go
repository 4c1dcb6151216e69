package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hupe1980/easystore"
	"github.com/hupe1980/easystore/metric"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds HTTP server settings.
type Config struct {
	Addr              string
	RequestsPerSecond float64
	Burst             int
	ShutdownTimeout   time.Duration
}

// DefaultConfig returns production-ready server settings.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		RequestsPerSecond: 100,
		Burst:             200,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Server wraps the HTTP server and dependencies.
type Server struct {
	router   *gin.Engine
	store    *easystore.Dispatcher
	logger   *easystore.Logger
	metrics  *metric.Prometheus
	gatherer prometheus.Gatherer
	config   Config
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *easystore.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records request metrics in m and serves g on /metrics.
func WithMetrics(m *metric.Prometheus, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// New creates a server for store.
func New(store *easystore.Dispatcher, cfg Config, optFns ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		store:  store,
		logger: easystore.NoopLogger(),
		config: cfg,
	}
	for _, fn := range optFns {
		fn(s)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), RequestID(), RateLimit(cfg.RequestsPerSecond, cfg.Burst), s.observe())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.health)
	s.router.GET("/disks", s.listDisks)
	s.router.GET("/files/:disk/*path", s.download)
	if s.gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
}

// Handler returns the router wrapped in gzip response compression.
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "http server listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.InfoContext(shutdownCtx, "http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
