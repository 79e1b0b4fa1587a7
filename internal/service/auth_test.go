package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/omkaark/patchwork-auth/internal/apperror"
	"github.com/omkaark/patchwork-auth/internal/auth"
	"github.com/omkaark/patchwork-auth/internal/github"
	"github.com/omkaark/patchwork-auth/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeVerifier returns a fixed profile (or error) for any token. Hand-written
// fakes keep these tests free of HTTP and easy to read.
type fakeVerifier struct {
	profile *github.Profile
	err     error
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*github.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

// fakeUserRepo is an in-memory UserRepository keyed by GitHub ID. It mirrors
// the real Upsert contract: first contact assigns ID/tier/created_at, later
// contacts keep them and refresh the rest.
type fakeUserRepo struct {
	byGHID map[int64]*model.User
	nextID int
	// set to a non-nil error to simulate a storage failure
	upsertErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byGHID: make(map[int64]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *model.User) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	now := time.Now()
	if existing, ok := f.byGHID[user.GitHubID]; ok {
		user.ID = existing.ID
		user.Tier = existing.Tier
		user.CreatedAt = existing.CreatedAt
	} else {
		user.ID = "user-fake-id-" + string(rune('0'+f.nextID))
		f.nextID++
		user.Tier = model.DefaultTier
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	copied := *user
	f.byGHID[user.GitHubID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	u, ok := f.byGHID[githubID]
	if !ok {
		return nil, apperror.NotFound("user", "fake")
	}
	return u, nil
}

// newTestAuthService wires an AuthService from the given fakes plus a real
// TokenService, so issued tokens can be decoded and asserted on.
func newTestAuthService(t *testing.T, verifier IdentityVerifier, repo *fakeUserRepo) (*AuthService, *auth.TokenService) {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthService(verifier, repo, tokens, logger), tokens
}

// =========================================================================
// EXCHANGE TESTS
// =========================================================================

func TestExchange_NewUser(t *testing.T) {
	repo := newFakeUserRepo()
	verifier := &fakeVerifier{profile: &github.Profile{
		ID:    42,
		Login: "octocat",
		Email: "octocat@github.com",
	}}
	svc, tokens := newTestAuthService(t, verifier, repo)

	tokenStr, err := svc.Exchange(context.Background(), "gho_valid")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}

	claims, err := tokens.Validate(tokenStr)
	if err != nil {
		t.Fatalf("Validate() on issued token: %v", err)
	}

	stored, err := repo.GetByGitHubID(context.Background(), 42)
	if err != nil {
		t.Fatalf("user was not persisted: %v", err)
	}
	if claims.Subject != stored.ID {
		t.Errorf("token sub = %q, want stored user ID %q", claims.Subject, stored.ID)
	}
	if claims.Email != "octocat@github.com" {
		t.Errorf("token email = %q, want %q", claims.Email, "octocat@github.com")
	}
	if claims.Tier != "free" {
		t.Errorf("token tier = %q, want %q", claims.Tier, "free")
	}
}

func TestExchange_HiddenEmailGetsPlaceholder(t *testing.T) {
	repo := newFakeUserRepo()
	verifier := &fakeVerifier{profile: &github.Profile{
		ID:    7,
		Login: "alice",
		Email: "", // hidden on GitHub
	}}
	svc, tokens := newTestAuthService(t, verifier, repo)

	tokenStr, err := svc.Exchange(context.Background(), "gho_valid")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}

	stored, _ := repo.GetByGitHubID(context.Background(), 7)
	if stored.Email != "alice@github" {
		t.Errorf("stored email = %q, want %q", stored.Email, "alice@github")
	}

	// The placeholder also ends up in the token, not the empty string
	claims, err := tokens.Validate(tokenStr)
	if err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	if claims.Email != "alice@github" {
		t.Errorf("token email = %q, want %q", claims.Email, "alice@github")
	}
}

func TestExchange_SecondLoginKeepsIdentity(t *testing.T) {
	repo := newFakeUserRepo()
	verifier := &fakeVerifier{profile: &github.Profile{ID: 99, Login: "old-login"}}
	svc, tokens := newTestAuthService(t, verifier, repo)

	first, err := svc.Exchange(context.Background(), "gho_valid")
	if err != nil {
		t.Fatalf("first Exchange(): %v", err)
	}
	firstClaims, _ := tokens.Validate(first)

	// Same account comes back with a renamed profile
	verifier.profile = &github.Profile{ID: 99, Login: "new-login"}
	second, err := svc.Exchange(context.Background(), "gho_valid")
	if err != nil {
		t.Fatalf("second Exchange(): %v", err)
	}
	secondClaims, _ := tokens.Validate(second)

	if firstClaims.Subject != secondClaims.Subject {
		t.Errorf("sub changed across logins: %q vs %q", firstClaims.Subject, secondClaims.Subject)
	}

	stored, _ := repo.GetByGitHubID(context.Background(), 99)
	if stored.Login != "new-login" {
		t.Errorf("stored login = %q, want refreshed %q", stored.Login, "new-login")
	}
}

func TestExchange_RejectedTokenPropagatesUnauthenticated(t *testing.T) {
	repo := newFakeUserRepo()
	verifier := &fakeVerifier{err: apperror.Unauthenticated("invalid GitHub token", nil)}
	svc, _ := newTestAuthService(t, verifier, repo)

	_, err := svc.Exchange(context.Background(), "gho_bad")
	if err == nil {
		t.Fatal("Exchange() should fail when verification fails")
	}
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("Exchange() error = %v, want ErrUnauthenticated", err)
	}
	if len(repo.byGHID) != 0 {
		t.Error("Exchange() must not touch storage for an unverified token")
	}
}

func TestExchange_StorageErrorIsNotUnauthenticated(t *testing.T) {
	repo := newFakeUserRepo()
	repo.upsertErr = errors.New("database is on fire")
	verifier := &fakeVerifier{profile: &github.Profile{ID: 1, Login: "user"}}
	svc, _ := newTestAuthService(t, verifier, repo)

	_, err := svc.Exchange(context.Background(), "gho_valid")
	if err == nil {
		t.Fatal("Exchange() should propagate repository errors")
	}
	if errors.Is(err, apperror.ErrUnauthenticated) {
		t.Error("a storage failure must not look like an auth failure")
	}
}
