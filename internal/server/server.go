// Package server exposes gym environments over HTTP so a policy written in
// any language can drive them.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rustyeddy/tradegym/market"
	"github.com/rustyeddy/tradegym/metrics"
	"github.com/rustyeddy/tradegym/sim"
	"go.uber.org/zap"
)

// Config describes the server dependencies.
type Config struct {
	Addr     string
	Series   *market.Series
	Params   sim.Params
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

// Server owns a set of environment sessions keyed by ID.
type Server struct {
	addr    string
	series  *market.Series
	params  sim.Params
	log     *zap.Logger
	reg     *prometheus.Registry
	metrics *metrics.Collector
	router  *gin.Engine

	mu       sync.RWMutex
	sessions map[string]*session
}

// session serializes all calls on one engine.
type session struct {
	mu     sync.Mutex
	env    *sim.Engine
	trades int
	reward float64
}

func New(cfg Config) (*Server, error) {
	if cfg.Series == nil {
		return nil, errors.New("server: Series is required")
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		addr:     cfg.Addr,
		series:   cfg.Series,
		params:   cfg.Params,
		log:      cfg.Logger,
		reg:      cfg.Registry,
		metrics:  metrics.New(cfg.Registry),
		router:   router,
		sessions: make(map[string]*session),
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.router.GET("/metrics", gin.WrapH(metrics.Handler(s.reg)))

	api := s.router.Group("/api/envs")
	api.POST("", s.handleCreate)
	api.POST("/:id/reset", s.handleReset)
	api.POST("/:id/step", s.handleStep)
	api.GET("/:id/stats", s.handleStats)
	api.GET("/:id/render", s.handleRender)
	api.DELETE("/:id", s.handleDelete)
}

// Handler returns the HTTP handler, mostly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.log.Info("server listening", zap.String("addr", s.addr))

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) lookup(c *gin.Context) (*session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[c.Param("id")]
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "env not found"})
	}
	return sess, ok
}

// SessionCount reports the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
