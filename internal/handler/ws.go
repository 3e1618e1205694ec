// ==============================================================================
// PROGRESSIVE VERIFICATION WEBSOCKET - internal/handler/ws.go
// ==============================================================================
// Streams each section as it settles instead of holding the HTTP response
// until the slowest upstream answers. The message protocol is:
//
//	client -> server: one Draft JSON object
//	server -> client: {"type":"partial","result":...} per settled section
//	server -> client: {"type":"settled","outcome":...} then close
package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"verid/internal/domain"
	"verid/internal/pipeline"
	"verid/internal/session"
	veriderrors "verid/pkg/errors"
	"verid/pkg/logger"
	"verid/pkg/validator"
)

type wsMessage struct {
	Type    string                `json:"type"`
	Result  *domain.PartialResult `json:"result,omitempty"`
	Outcome *domain.Outcome       `json:"outcome,omitempty"`
	Errors  map[string]string     `json:"errors,omitempty"`
}

type WSHandler struct {
	runner    Runner
	sessions  *session.Store
	validator *validator.Validator
	logger    logger.Logger
	upgrader  websocket.Upgrader
}

func NewWSHandler(runner Runner, sessions *session.Store, val *validator.Validator, log logger.Logger) *WSHandler {
	return &WSHandler{
		runner:    runner,
		sessions:  sessions,
		validator: val,
		logger:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser origin policy is handled by the CORS layer for the REST
			// surface; the socket accepts any origin and relies on session IDs.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Verify handles GET /ws/verify/{tier}.
func (h *WSHandler) Verify(w http.ResponseWriter, r *http.Request) {
	tier, ok := domain.ParseTier(mux.Vars(r)["tier"])
	if !ok {
		respondError(w, http.StatusNotFound, veriderrors.ErrInvalidTier.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}
	defer conn.Close()

	var draft domain.Draft
	if err := conn.ReadJSON(&draft); err != nil {
		_ = conn.WriteJSON(wsMessage{Type: "error", Errors: map[string]string{"body": "Invalid draft payload"}})
		return
	}

	if errs := validateDraft(h.validator, &draft); len(errs) > 0 {
		_ = conn.WriteJSON(wsMessage{Type: "validation_error", Errors: errs})
		return
	}

	sid := sessionID(r)
	sess, _ := h.sessions.LoadContext(r.Context(), sid)

	sink := pipeline.SinkFunc(func(result domain.PartialResult) {
		partial := result
		if err := conn.WriteJSON(wsMessage{Type: "partial", Result: &partial}); err != nil {
			h.logger.Debug("WebSocket write failed", map[string]interface{}{"error": err.Error()})
		}
	})

	outcome, err := h.runner.Submit(r.Context(), sid, tier, &draft, sess, sink)
	if err != nil {
		if errors.Is(err, veriderrors.ErrRunSuperseded) {
			_ = conn.WriteJSON(wsMessage{Type: "superseded"})
			return
		}
		_ = conn.WriteJSON(wsMessage{Type: "error", Errors: map[string]string{"run": err.Error()}})
		return
	}

	if outcome.Profile != nil {
		cached := &session.CachedProfile{Tier: tier, Draft: &draft, Profile: outcome.Profile}
		if err := h.sessions.SaveProfile(r.Context(), sid, cached); err != nil {
			h.logger.Warn("Failed to cache generated profile", map[string]interface{}{"error": err.Error()})
		}
	}

	_ = conn.WriteJSON(wsMessage{Type: "settled", Outcome: outcome})
}
