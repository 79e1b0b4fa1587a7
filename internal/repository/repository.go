package repository

import (
	"context"

	"github.com/omkaark/patchwork-auth/internal/model"
)

// UserRepository is the data-access capability the auth service consumes.
type UserRepository interface {
	// Upsert creates or refreshes the user row keyed on user.GitHubID.
	// On return user carries the canonical ID, Tier, CreatedAt, and
	// UpdatedAt of the surviving row. The operation is atomic: concurrent
	// first-time upserts for the same GitHubID converge on a single row.
	Upsert(ctx context.Context, user *model.User) error

	// GetByGitHubID returns the user for a GitHub numeric ID, or an error
	// wrapping apperror.ErrNotFound.
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
}
