package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/omkaark/patchwork-auth/internal/apperror"
)

// errorResponse is the error body for the JSON endpoints. One fixed message
// per status class; internal causes never appear here.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be written before the body: once Encode calls
// w.Write, the headers are on the wire and later changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP response. This is the single
// outermost translation point: service and repository errors arrive wrapped,
// errors.Is walks the chain, and everything not recognized becomes the
// generic 500 body so no internal detail leaks to the caller.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		msg := "Bad Request"
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})

	case errors.Is(err, apperror.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid GitHub token"})

	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Authentication failed"})
	}
}
