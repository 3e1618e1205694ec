// ==============================================================================
// RUN HISTORY HANDLER - internal/handler/history.go
// ==============================================================================
package handler

import (
	"context"
	"net/http"
	"strconv"

	"verid/internal/domain"
	"verid/pkg/logger"
)

// HistoryRepository lists recorded verification runs for a session.
type HistoryRepository interface {
	FindBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]*domain.VerificationRun, error)
	CountByTier(ctx context.Context) (map[domain.Tier]int, error)
}

type HistoryHandler struct {
	repo   HistoryRepository
	logger logger.Logger
}

func NewHistoryHandler(repo HistoryRepository, log logger.Logger) *HistoryHandler {
	return &HistoryHandler{repo: repo, logger: log}
}

// List handles GET /api/v1/verifications for the calling session.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusNotImplemented, "Run history requires a database")
		return
	}

	limit := queryInt(r, "limit", 20)
	if limit > 100 {
		limit = 100
	}
	offset := queryInt(r, "offset", 0)

	runs, err := h.repo.FindBySessionID(r.Context(), sessionID(r), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list verification runs", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Failed to list verification runs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":   runs,
		"limit":  limit,
		"offset": offset,
	})
}

// Stats handles GET /api/v1/verifications/stats: run counts per tier.
func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusNotImplemented, "Run history requires a database")
		return
	}

	counts, err := h.repo.CountByTier(r.Context())
	if err != nil {
		h.logger.Error("Failed to count verification runs", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Failed to count verification runs")
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
