package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter は、APIのルーティングを設定したハンドラーを返します
func NewRouter(h *Handler, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, requestLogger(logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/status", h.Status)

		r.Get("/base-image", h.GetBaseImage)
		r.Put("/base-image", h.PutBaseImage)

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.ListItems)
			r.Post("/", h.AddItem)
			r.Delete("/", h.ClearItems)
			r.Post("/import", h.ImportItems)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetItem)
				r.Patch("/", h.UpdateItem)
				r.Delete("/", h.RemoveItem)
				r.Post("/generate", h.GenerateItem)
				r.Get("/cover", h.DownloadCover)
			})
		})

		r.Post("/generate", h.GenerateAll)
		r.Get("/covers.zip", h.DownloadArchive)
		r.Post("/publish", h.Publish)
	})

	return r
}
