package api

import (
	"net/http"
)

// handleHealth reports 200 while the cards service can serve data, 503 otherwise
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"services": map[string]string{
			"cards_data": "up",
		},
	}

	code := http.StatusOK
	if !s.cardsService.Healthy() {
		status["status"] = "degraded"
		status["services"].(map[string]string)["cards_data"] = "down"
		code = http.StatusServiceUnavailable
	}

	s.sendJSONResponseWithStatus(w, code, status)
}
