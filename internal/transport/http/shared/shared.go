// Package shared holds response helpers used by every HTTP handler.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "github.com/Malmz/TalesFromTheSprawl/pkg/domain-errors"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteError maps a domain error code onto an HTTP status.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case dErrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case dErrors.CodeConflict:
		status = http.StatusConflict
	case dErrors.CodeNotFound:
		status = http.StatusNotFound
	case dErrors.CodeBusy:
		status = http.StatusServiceUnavailable
	case dErrors.CodeUnavailable:
		status = http.StatusBadGateway
	}
	WriteJSON(w, status, errorBody{Error: string(code), Message: err.Error()})
}
