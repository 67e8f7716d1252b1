package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio metrics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Post("/metrics", h.HandleComputeMetrics)
		r.Post("/risk-parity", h.HandleRiskParity)

		// WebSocket stream for slider-driven recomputation
		r.Get("/stream", h.stream.ServeHTTP)
	})
}
