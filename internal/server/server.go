// Package server provides the HTTP API for kuliner.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/config"
	"github.com/hyperjump/kuliner/internal/recommend"
)

// Server is the HTTP server for the kuliner API. It always serves the engine currently
// held by its Holder.
type Server struct {
	holder   *recommend.Holder
	config   *config.ServerConfig
	search   *config.SearchConfig
	logger   *zap.Logger
	cache    *cache.Cache
	metrics  *metrics
	validate *validator.Validate
	router   http.Handler
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(holder *recommend.Holder, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		holder:   holder,
		config:   &cfg.Server,
		search:   &cfg.Search,
		logger:   logger,
		cache:    cache.New(cfg.Search.CacheTTL, cfg.Search.CacheCleanup),
		metrics:  newMetrics(),
		validate: validator.New(),
	}
	if e := holder.Load(); e != nil {
		s.metrics.records.Set(float64(e.Len()))
	}
	s.router = s.routes()
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/recommend", s.handleRecommendPost)
	r.Get("/api/v1/recommend", s.handleRecommendGet)
	r.Get("/api/v1/businesses", s.handleBusinesses)
	r.Get("/api/v1/categories", s.handleCategories)
	r.Get("/api/v1/stats", s.handleStats)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// OnSwap is called after the holder starts serving e. Cached responses of the previous
// engine are dropped.
func (s *Server) OnSwap(e *recommend.Engine) {
	s.cache.Flush()
	s.metrics.reloads.Inc()
	if e != nil {
		s.metrics.records.Set(float64(e.Len()))
	}
	s.logger.Info("Engine swapped, response cache flushed")
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("chi_request_id", middleware.GetReqID(r.Context())))
	})
}
