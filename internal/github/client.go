// Package github verifies GitHub access tokens against the GitHub REST API.
//
// Unlike a full OAuth authorization-code flow, clients hand us an access
// token they already hold. Verification is a single call to GET /user: if
// GitHub answers 200 with a user object, the token is good and the object is
// the authenticated identity. Anything else — a non-2xx status, a network
// failure, an undecodable body — collapses to apperror.ErrUnauthenticated.
// Callers cannot distinguish "bad token" from "GitHub unreachable"; the
// underlying cause stays in the wrapped error chain for logging.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/omkaark/patchwork-auth/internal/apperror"
)

// userAgent identifies this service to GitHub. GitHub rejects requests
// without a User-Agent header.
const userAgent = "Patchwork-Auth"

// Profile is the portion of the GitHub /user API response we care about.
// GitHub returns a much larger object — we only unmarshal the fields we need.
//
// GitHub API docs: https://docs.github.com/en/rest/users/users#get-the-authenticated-user
type Profile struct {
	ID              int64     `json:"id"`    // GitHub's numeric user ID — stable, never changes
	Login           string    `json:"login"` // GitHub username, e.g. "octocat"
	Email           string    `json:"email"` // primary email ("" if hidden in GitHub settings)
	AvatarURL       string    `json:"avatar_url"`
	Name            string    `json:"name"`
	HTMLURL         string    `json:"html_url"`
	CreatedAt       time.Time `json:"created_at"` // account creation on GitHub
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Bio             string    `json:"bio"`
	Followers       int64     `json:"followers"`
	TwitterUsername string    `json:"twitter_username"`
}

// Client calls the GitHub REST API.
type Client struct {
	baseURL string
}

// NewClient creates a Client against the given API base URL
// (https://api.github.com in production, an httptest server in tests).
func NewClient(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/")}
}

// Verify exchanges a raw access token for the authenticated user's profile.
//
// Exactly one outbound request, no retries. Every failure mode returns an
// error satisfying errors.Is(err, apperror.ErrUnauthenticated).
func (c *Client) Verify(ctx context.Context, token string) (*Profile, error) {
	// oauth2.NewClient returns an *http.Client that attaches
	// "Authorization: Bearer <token>" to every request. StaticTokenSource
	// wraps the raw token the caller gave us; there is no refresh flow.
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(ctx, src)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, apperror.Unauthenticated("invalid GitHub token",
			fmt.Errorf("github: building /user request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperror.Unauthenticated("invalid GitHub token",
			fmt.Errorf("github: calling /user: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Unauthenticated("invalid GitHub token",
			fmt.Errorf("github: /user returned status %d", resp.StatusCode))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, apperror.Unauthenticated("invalid GitHub token",
			fmt.Errorf("github: decoding /user response: %w", err))
	}

	if profile.ID == 0 {
		return nil, apperror.Unauthenticated("invalid GitHub token",
			fmt.Errorf("github: /user returned an invalid user (ID = 0)"))
	}

	return &profile, nil
}
