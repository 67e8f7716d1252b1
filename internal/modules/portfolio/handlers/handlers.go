// Package handlers provides HTTP handlers for portfolio metrics operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/riskparity/internal/modules/portfolio"
	"github.com/rs/zerolog"
)

// Handler handles portfolio metrics HTTP requests
type Handler struct {
	service *portfolio.Service
	stream  *StreamHandler
	log     zerolog.Logger
}

// NewHandler creates a new portfolio metrics handler
func NewHandler(service *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		stream:  NewStreamHandler(service, log),
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleComputeMetrics handles POST /api/portfolio/metrics
//
// The body is the full input tuple (assets, correlation matrix, leverage,
// optional risk-free rate). Shape violations come back as 400 with the
// engine's message; degenerate inputs are a normal 200 with zero metrics.
func (h *Handler) HandleComputeMetrics(w http.ResponseWriter, r *http.Request) {
	var in portfolio.Inputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	metrics, err := h.service.Metrics(in)
	if err != nil {
		h.log.Debug().Err(err).Msg("Rejected metrics request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": metrics,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleRiskParity handles POST /api/portfolio/risk-parity
//
// The body is a list of asset classes; only volatilities participate in the
// inverse-volatility solution.
func (h *Handler) HandleRiskParity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Assets []portfolio.AssetClass `json:"assets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Assets) == 0 {
		http.Error(w, "At least one asset is required", http.StatusBadRequest)
		return
	}
	for _, asset := range req.Assets {
		if asset.Volatility < 0 {
			http.Error(w, "Volatility must be non-negative", http.StatusBadRequest)
			return
		}
	}

	weights := h.service.RiskParity(req.Assets)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": weights,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
