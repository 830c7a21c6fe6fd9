package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mindgraph/internal/apperr"
	"mindgraph/internal/config"
	"mindgraph/internal/logger"
	"mindgraph/internal/pipeline"
	"mindgraph/internal/storage"
)

// Readiness reports whether the embedding model has been loaded.
type Readiness interface {
	Ready() bool
}

// Server exposes mindmap generation and the stored mindmaps over HTTP.
type Server struct {
	cfg     *config.Config
	runner  *pipeline.Runner
	store   storage.MindmapStore
	ready   Readiness
	log     *logger.Logger
	limiter *RateLimiter
	now     func() time.Time
}

func New(cfg *config.Config, runner *pipeline.Runner, store storage.MindmapStore, ready Readiness, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		cfg:     cfg,
		runner:  runner,
		store:   store,
		ready:   ready,
		log:     log,
		limiter: NewRateLimiter(cfg.Server.RateLimit.Requests, rateWindow(cfg)),
		now:     time.Now,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.log.Zap()))
	router.Use(securityHeaders)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", s.healthCheck)

	router.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(func(w http.ResponseWriter, req *http.Request) {
			s.respondError(w, req, apperr.RateLimited())
		}))

		r.Post("/ai", s.generate)
		r.Route("/mindmaps", func(r chi.Router) {
			r.Get("/", s.listMindmaps)
			r.Post("/", s.generate)
			r.Get("/{id}", s.getMindmap)
			r.Delete("/{id}", s.deleteMindmap)
			r.Get("/{id}/export", s.exportMindmap)
			r.Get("/{id}/focus/{nodeID}", s.focusMindmap)
		})
	})

	return router
}

// ListenAndServe blocks until ctx is cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepLimiter(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.log.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) sweepLimiter(ctx context.Context) {
	window := rateWindow(s.cfg)
	ticker := time.NewTicker(window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Sweep(window); n > 0 {
				s.log.Debug("rate limiter swept", "clients", n)
			}
		}
	}
}

// rateWindow falls back to the default window when the configured one is not positive.
func rateWindow(cfg *config.Config) time.Duration {
	if w := time.Duration(cfg.Server.RateLimit.WindowMinutes) * time.Minute; w > 0 {
		return w
	}
	return defaultRateWindow
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
