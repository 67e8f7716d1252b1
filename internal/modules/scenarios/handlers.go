package scenarios

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler provides HTTP handlers for the scenario catalog
type Handler struct {
	catalog *Catalog
	log     zerolog.Logger
}

// NewHandler creates a new scenarios handler
func NewHandler(catalog *Catalog, log zerolog.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		log:     log.With().Str("handler", "scenarios").Logger(),
	}
}

// RegisterRoutes registers all scenario routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/scenarios", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{kind}", h.HandleResolve)
	})
}

// HandleList handles GET /api/scenarios
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]interface{}{
		"data": h.catalog.List(),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleResolve handles GET /api/scenarios/{kind}
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	resolved, err := h.catalog.Resolve(kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"data": resolved,
		"metadata": map[string]interface{}{
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
