package server

import (
	"net/http"

	"ai-image-web/internal/builder"
	"ai-image-web/internal/server/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter は、ミドルウェアとルーティングを統合した http.Handler を構築します。
func NewRouter(h *builder.AppHandlers) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r, h.Metrics)
	setupRoutes(r, h.API)
	r.Method(http.MethodGet, "/metrics", h.MetricsHandler)

	return r
}

func setupCommonMiddleware(r *chi.Mux, metrics func(http.Handler) http.Handler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
	if metrics != nil {
		r.Use(metrics)
	}
}

func setupRoutes(r chi.Router, api *handlers.Handler) {
	r.Get("/healthz", api.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", api.Options)

		r.Post("/generate-image", api.GenerateImage)
		r.Post("/generate-image/stream", api.GenerateImageStream)

		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", api.ListGallery)
			r.Delete("/", api.ClearGallery)
			r.Put("/system-prompt", api.UpdateSystemPrompt)
			r.Delete("/{id}", api.DeleteImage)
			r.Get("/{id}/download", api.DownloadImage)
		})
	})
}
