package frontier

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler provides HTTP handlers for frontier generation
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new frontier handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "frontier").Logger(),
	}
}

// RegisterRoutes registers all frontier routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/frontier", func(r chi.Router) {
		r.Post("/mix", h.HandleMixFrontier)
		r.Post("/leverage", h.HandleLeverageFrontier)
	})
}

// HandleMixFrontier handles POST /api/frontier/mix
func (h *Handler) HandleMixFrontier(w http.ResponseWriter, r *http.Request) {
	var req MixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	points, err := h.service.Mix(r.Context(), req)
	if err != nil {
		h.log.Debug().Err(err).Msg("Rejected mix frontier request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"data": points,
		"metadata": map[string]interface{}{
			"points":    len(points),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleLeverageFrontier handles POST /api/frontier/leverage
func (h *Handler) HandleLeverageFrontier(w http.ResponseWriter, r *http.Request) {
	var req LeverageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	points, err := h.service.Leverage(r.Context(), req)
	if err != nil {
		h.log.Debug().Err(err).Msg("Rejected leverage frontier request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"data": points,
		"metadata": map[string]interface{}{
			"points":    len(points),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
