// Package handler contains the HTTP request handlers.
//
// Handlers parse requests, call the service layer, and translate outcomes to
// HTTP. All business rules live below them.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/omkaark/patchwork-auth/internal/apperror"
	"github.com/omkaark/patchwork-auth/internal/service"
)

// AuthHandler serves the token-exchange endpoint.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// authRequest is the expected body of POST /auth.
type authRequest struct {
	GitHubToken string `json:"github_token"`
}

// authResponse is the success body: the signed session token.
type authResponse struct {
	Token string `json:"token"`
}

// HandleAuth exchanges a GitHub access token for a session JWT.
//
// HTTP: POST /auth, body {"github_token": "..."}
//
// Response contract (fixed messages, nothing else ever leaks):
//
//	200 {"token": "..."}
//	400 {"error": "Missing github_token"}   — field absent or empty
//	401 {"error": "Invalid GitHub token"}   — GitHub rejected the token, or
//	                                          was unreachable (merged on purpose)
//	500 {"error": "Authentication failed"}  — anything else: malformed JSON,
//	                                          storage error, signing error
func (h *AuthHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// A body that isn't JSON at all is an unexpected failure, not a
		// missing field: it takes the generic 500 path.
		h.logger.Error("auth: decoding request body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	if req.GitHubToken == "" {
		writeError(w, apperror.ValidationFailed("github_token", "Missing github_token"))
		return
	}

	token, err := h.auth.Exchange(r.Context(), req.GitHubToken)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthenticated) {
			// Bad token and unreachable provider look identical to the
			// caller; the wrapped cause below is for operators only.
			h.logger.Warn("auth: GitHub token rejected", slog.String("error", err.Error()))
		} else {
			h.logger.Error("auth: exchange failed", slog.String("error", err.Error()))
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token})
}
