package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

// Health is the unauthenticated liveness check used by Cloud Run.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode health response", "error", err)
	}
}
