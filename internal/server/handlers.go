package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"service": "riskparity",
		"uptime":  time.Since(s.startedAt).String(),
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleDefaults handles GET /api/defaults: the slider defaults and limits
// the frontend initializes from.
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"risk_free_rate": s.cfg.RiskFreeRate,
			"max_leverage":   s.cfg.MaxLeverage,
			"frontier_steps": s.cfg.FrontierSteps,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	s.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
