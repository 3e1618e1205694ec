// ==============================================================================
// VERIFICATION HTTP HANDLER - internal/handler/verify.go
// ==============================================================================
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"verid/internal/domain"
	"verid/internal/pipeline"
	"verid/internal/session"
	veriderrors "verid/pkg/errors"
	"verid/pkg/logger"
	"verid/pkg/validator"
)

// Runner drives verification runs; satisfied by pipeline.Controller.
type Runner interface {
	Submit(ctx context.Context, sessionID string, tier domain.Tier, draft *domain.Draft, sess session.Context, sink pipeline.Sink) (*domain.Outcome, error)
}

type VerifyHandler struct {
	runner    Runner
	sessions  *session.Store
	validator *validator.Validator
	logger    logger.Logger
}

func NewVerifyHandler(runner Runner, sessions *session.Store, val *validator.Validator, log logger.Logger) *VerifyHandler {
	return &VerifyHandler{
		runner:    runner,
		sessions:  sessions,
		validator: val,
		logger:    log,
	}
}

// Verify handles POST /api/v1/verify/{tier}.
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	tier, ok := domain.ParseTier(mux.Vars(r)["tier"])
	if !ok {
		respondError(w, http.StatusNotFound, veriderrors.ErrInvalidTier.Error())
		return
	}

	var draft domain.Draft
	if err := decodeJSON(w, r, &draft); err != nil {
		return
	}

	if errs := validateDraft(h.validator, &draft); len(errs) > 0 {
		h.logger.Warn("Submission blocked by validation", map[string]interface{}{
			"tier":   string(tier),
			"fields": len(errs),
		})
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"failure": domain.FailureValidation,
			"errors":  errs,
		})
		return
	}

	sid := sessionID(r)
	sess, err := h.sessions.LoadContext(r.Context(), sid)
	if err != nil {
		sess = session.Context{}
	}

	outcome, err := h.runner.Submit(r.Context(), sid, tier, &draft, sess, pipeline.NopSink)
	if err != nil {
		if errors.Is(err, veriderrors.ErrRunSuperseded) {
			respondError(w, http.StatusConflict, "Verification superseded by a newer submission")
			return
		}
		h.logger.Error("Verification run failed", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	if outcome.Profile != nil {
		cached := &session.CachedProfile{Tier: tier, Draft: &draft, Profile: outcome.Profile}
		if err := h.sessions.SaveProfile(r.Context(), sid, cached); err != nil {
			h.logger.Warn("Failed to cache generated profile", map[string]interface{}{"error": err.Error()})
		}
	}

	respondJSON(w, http.StatusOK, outcome)
}

// Reset handles DELETE /api/v1/profile ("New Verification").
func (h *VerifyHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DeleteProfile(r.Context(), sessionID(r)); err != nil {
		h.logger.Warn("Failed to drop cached profile", map[string]interface{}{"error": err.Error()})
	}
	w.WriteHeader(http.StatusNoContent)
}
