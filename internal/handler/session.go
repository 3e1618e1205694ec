// ==============================================================================
// SESSION HANDLER - internal/handler/session.go
// ==============================================================================
package handler

import (
	"net/http"

	"verid/internal/session"
	"verid/pkg/logger"
	"verid/pkg/validator"
)

type SessionHandler struct {
	sessions  *session.Store
	validator *validator.Validator
	logger    logger.Logger
}

func NewSessionHandler(sessions *session.Store, val *validator.Validator, log logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		validator: val,
		logger:    log,
	}
}

type sessionRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username" validate:"omitempty,max=100"`
}

// Put handles PUT /api/v1/session: stores the identity the pipeline reads
// for report delivery.
func (h *SessionHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if errs := h.validator.ValidateStructured(&req); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
		return
	}

	sc := session.Context{Email: req.Email, Username: req.Username}
	if err := h.sessions.SaveContext(r.Context(), sessionID(r), sc); err != nil {
		h.logger.Error("Failed to save session", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}
	respondJSON(w, http.StatusOK, sc)
}

// Get handles GET /api/v1/session. A session that was never stored comes
// back as the empty identity, not an error.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.sessions.LoadContext(r.Context(), sessionID(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	respondJSON(w, http.StatusOK, sc)
}
