package internal

import (
	"context"
	"net/http"
	"time"

	"item-tracker/internal/config"
	"item-tracker/internal/handlers"
	"item-tracker/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type Server struct {
	Store   store.Store
	Router  *chi.Mux
	Metrics *Metrics
	Logger  zerolog.Logger
}

// NewServer wires the item routes over an already opened store. The caller
// keeps ownership of the store and closes it after the server stops.
func NewServer(st store.Store, cfg *config.Config, logger zerolog.Logger) *Server {
	s := &Server{
		Store:   st,
		Router:  chi.NewRouter(),
		Metrics: NewMetrics(),
		Logger:  logger,
	}

	// chi requires every middleware before the first route.
	s.Router.Use(hlog.NewHandler(logger))
	s.Router.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	s.Router.Use(hlog.AccessHandler(accessLog))
	s.Router.Use(chimw.Recoverer)
	s.Router.Use(CORS(cfg.CORSOrigin))
	if cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.Router.Get("/ready", s.ready)

	s.Router.Route("/api/items", func(r chi.Router) {
		r.Get("/", s.listItems)
		r.Post("/", s.createItem)
		r.Post("/import", handlers.NewImportsHandler(st).UploadExcel)
		r.Delete("/{id}", s.deleteItem)
	})

	return s
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("readiness check failed")
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ok"))
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}
