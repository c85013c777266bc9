package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter mounts health endpoints and the authenticated /api routes.
// ready may be nil, in which case readiness always succeeds.
func NewRouter(h *Handler, verifier TokenVerifier, ready Pinger, log *zap.Logger) chi.Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(log))
	r.Use(Recover(log))

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := ready.Ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(Auth(verifier))

		api.Get("/categories", h.ListCategories)
		api.Post("/categories", h.CreateCategory)
		api.Put("/categories/{id}", h.RenameCategory)
		api.Delete("/categories/{id}", h.DeleteCategory)

		api.Get("/words", h.ListWords)
		api.Post("/words", h.AddWord)
		api.Get("/words/count", h.CountWords)
		api.Get("/words/lookup/{word}", h.LookupWord)
		api.Put("/words/{id}/notes", h.UpdateNotes)
		api.Delete("/words/{id}", h.DeleteWord)

		api.Get("/providers", h.ListProviders)
		api.Post("/translate", h.Translate)
	})

	return r
}
