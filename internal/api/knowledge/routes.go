package knowledge

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers knowledge base routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/v1/knowledge", func(r chi.Router) {
		r.Post("/documents", h.AddDocument)
		r.Post("/search", h.Search)
		r.Get("/stats", h.Stats)
	})
}
