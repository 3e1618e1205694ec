// ==============================================================================
// HANDLER HELPERS - internal/handler/responses.go
// ==============================================================================
package handler

import (
	"encoding/json"
	"io"
	"net/http"
)

const maxBodySize = 1 << 20 // 1MB

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"response encoding failed"}`, http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON parses a request body into req, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, req interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(req); err != nil {
		if err == io.EOF {
			respondError(w, http.StatusBadRequest, "Request body is required")
			return err
		}
		respondError(w, http.StatusBadRequest, "Invalid request body format")
		return err
	}
	return nil
}

// sessionID identifies the dashboard session; callers without one share the
// anonymous bucket.
func sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	return "anonymous"
}
