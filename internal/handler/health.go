// ==============================================================================
// HEALTH HANDLER - internal/handler/health.go
// ==============================================================================
package handler

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	started time.Time
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{started: time.Now(), version: version}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "verid",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
	})
}
