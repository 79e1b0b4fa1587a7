// Package service holds the authentication business logic.
//
// AuthService sits between the HTTP handler and its collaborators:
//
//	AuthHandler (HTTP) → AuthService (rules) → UserRepository (DB)
//	                   ↘ IdentityVerifier (GitHub)
//	                   ↘ TokenService (JWT)
//
// The handler never touches GitHub, the database, or signing directly, and
// this package never sees an http.ResponseWriter.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omkaark/patchwork-auth/internal/auth"
	"github.com/omkaark/patchwork-auth/internal/github"
	"github.com/omkaark/patchwork-auth/internal/model"
	"github.com/omkaark/patchwork-auth/internal/repository"
)

// IdentityVerifier exchanges a raw GitHub access token for a verified
// profile. github.Client implements it in production; tests substitute a
// fake.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*github.Profile, error)
}

// AuthService handles the token-exchange flow.
type AuthService struct {
	verifier IdentityVerifier
	users    repository.UserRepository
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	verifier IdentityVerifier,
	users repository.UserRepository,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		verifier: verifier,
		users:    users,
		tokens:   tokens,
		logger:   logger,
	}
}

// Exchange trades a GitHub access token for a signed session token.
//
// Three steps, strictly in sequence:
//  1. Verify the token with GitHub. A rejected or unreachable provider
//     surfaces as apperror.ErrUnauthenticated.
//  2. Reconcile the verified profile against the users table: first contact
//     inserts a row with a fresh ID and tier "free", later contacts refresh
//     the profile mirror fields while id/tier/created_at stay put.
//  3. Issue the session JWT for the reconciled identity.
func (s *AuthService) Exchange(ctx context.Context, githubToken string) (string, error) {
	profile, err := s.verifier.Verify(ctx, githubToken)
	if err != nil {
		return "", fmt.Errorf("service/auth: verifying GitHub token: %w", err)
	}

	user := userFromProfile(profile)

	if err := s.users.Upsert(ctx, user); err != nil {
		return "", fmt.Errorf("service/auth: reconciling user (githubID=%d): %w", profile.ID, err)
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("login", user.Login),
		slog.String("tier", user.Tier),
	)

	token, err := s.tokens.Issue(user.ID, user.Email, user.Tier)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing session token for user %s: %w", user.ID, err)
	}

	return token, nil
}

// userFromProfile maps a verified GitHub profile onto the user record that
// reconciliation will store. The repository's Upsert fills in ID, Tier,
// CreatedAt, and UpdatedAt from the surviving row.
//
// GitHub omits the email when the user has hidden it; we substitute the
// deterministic placeholder "<login>@github" so the column is never empty.
func userFromProfile(p *github.Profile) *model.User {
	email := p.Email
	if email == "" {
		email = p.Login + "@github"
	}

	return &model.User{
		GitHubID:        p.ID,
		Login:           p.Login,
		Email:           email,
		Name:            p.Name,
		AvatarURL:       p.AvatarURL,
		HTMLURL:         p.HTMLURL,
		Company:         p.Company,
		Location:        p.Location,
		Bio:             p.Bio,
		Followers:       p.Followers,
		TwitterUsername: p.TwitterUsername,
		GitHubCreatedAt: p.CreatedAt,
	}
}
