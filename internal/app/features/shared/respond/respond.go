// internal/app/features/shared/respond/respond.go

// Package respond holds the JSON response helpers shared by all feature
// handlers, including the mapping from the fault taxonomy to HTTP status
// codes.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dforrest/communityhub/internal/app/system/faults"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes an error envelope with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// Fault maps err through the fault taxonomy and writes the matching
// status. Unrecognized errors become a generic 500 so internals never
// leak to callers.
func Fault(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, faults.ErrInvalidReference):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, faults.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, faults.ErrAlreadyMember):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, faults.ErrNotAMember):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, faults.ErrSyncTimeout):
		Error(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, faults.ErrProviderError):
		Error(w, http.StatusBadGateway, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
