package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/learnanything/server/internal/core"
	"github.com/learnanything/server/internal/llm"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the error taxonomy to HTTP statuses: validation
// 400, absent entity 404, upstream generation or unparseable model
// output 502, anything else (storage included) 500.
func statusForError(err error) int {
	var unavailable *llm.ErrUnavailable
	var badJSON *llm.ErrBadJSON
	switch {
	case errors.Is(err, core.ErrEmptyTopic):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable), errors.As(err, &badJSON):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageForStatus(status int, err error) string {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		return err.Error()
	case http.StatusBadGateway:
		return "content generation failed"
	default:
		return "internal server error"
	}
}
