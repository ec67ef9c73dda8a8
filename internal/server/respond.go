// internal/server/respond.go
package server

import (
	"encoding/json"
	"net/http"

	apperrors "leadscout/internal/common/errors"
)

// errorBody is the uniform JSON error envelope. Every failure path of the
// endpoint produces this shape, never a bare string or an empty body.
type errorBody struct {
	Error   string                 `json:"error"`
	Hint    string                 `json:"hint,omitempty"`
	Example map[string]interface{} `json:"example,omitempty"`
}

// setCORSHeaders applies the fixed header set carried by every response of
// the search endpoint, including errors and the preflight 204.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	setCORSHeaders(w)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeNoContent(w http.ResponseWriter) {
	setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, stdErr *apperrors.StandardError) {
	writeJSON(w, stdErr.HTTPStatus(), errorBody{
		Error:   stdErr.Message,
		Hint:    stdErr.Hint,
		Example: stdErr.Example,
	})
}
