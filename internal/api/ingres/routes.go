package ingres

import (
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers groundwater data routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/v1/ingres", func(r chi.Router) {
		r.Get("/groundwater/level", h.Facet(entity.DataTypeGroundwaterLevel))
		r.Get("/groundwater/quality", h.Facet(entity.DataTypeWaterQuality))
		r.Get("/rainfall", h.Facet(entity.DataTypeRainfall))
		r.Get("/drilling/recommendation", h.Facet(entity.DataTypeDrilling))
		r.Get("/districts", h.Districts)
		r.Get("/summary", h.Summary)
	})
}
