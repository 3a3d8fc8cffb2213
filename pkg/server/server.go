package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vroute/pkg/routepath"
	"github.com/vango-dev/vroute/pkg/router"
)

// Internal paths, relative to the base prefix.
const (
	SocketPath = "/_vroute/ws"
	ClientPath = "/_vroute/client.js"
)

// Server hosts a route table: it renders pages for history-mode URLs and
// runs a WebSocket history adapter per connected browser. Every request
// and connection gets its own Router; all of them share the table and
// therefore its cache of fetched views.
type Server struct {
	config     *Config
	base       string
	table      *router.Table
	routerOpts []router.Option
	gatherer   prometheus.Gatherer

	upgrader   websocket.Upgrader
	httpServer *http.Server
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRouterOptions adds options applied to every Router the server
// builds, typically navigation middleware.
func WithRouterOptions(opts ...router.Option) Option {
	return func(s *Server) {
		s.routerOpts = append(s.routerOpts, opts...)
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithGatherer sets the registry served on /metrics.
// Default: prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// New creates a Server for table. A nil config uses DefaultConfig().
func New(table *router.Table, config *Config, opts ...Option) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config.applyDefaults()

	base, err := routepath.NormalizeBase(config.Base)
	if err != nil {
		return nil, fmt.Errorf("server: base %q: %w", config.Base, err)
	}

	s := &Server{
		config:   config,
		base:     base,
		table:    table,
		gatherer: prometheus.DefaultGatherer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")
	return s, nil
}

// Base returns the normalized base prefix.
func (s *Server) Base() string {
	return s.base
}

// Handler returns the server's HTTP handler:
//   - /healthz: liveness probe
//   - /metrics: Prometheus metrics, when enabled
//   - {base}/_vroute/ws: WebSocket history adapter
//   - {base}/_vroute/client.js: browser client
//   - {base}/*: server-rendered pages
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if s.config.Metrics {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get(s.base+SocketPath, s.HandleWebSocket)
	r.Get(s.base+ClientPath, serveClient)
	if s.base != "" {
		r.Get(s.base, s.HandlePage)
	}
	r.Get(s.base+"/*", s.HandlePage)
	return r
}

// requestLogger logs one line per HTTP request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// newRouter builds a Router over h with the server's options.
func (s *Server) newRouter(h router.History, extra ...router.Option) (*router.Router, error) {
	opts := append([]router.Option{router.WithHistory(h), router.WithLogger(s.logger)}, s.routerOpts...)
	opts = append(opts, extra...)
	return router.NewWithTable(s.base, s.table, opts...)
}

// Run starts the server and blocks until ctx is done or SIGINT/SIGTERM
// arrives.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address, "base", s.base)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}
