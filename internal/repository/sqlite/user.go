package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/omkaark/patchwork-auth/internal/apperror"
	"github.com/omkaark/patchwork-auth/internal/model"
	"github.com/omkaark/patchwork-auth/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Upsert creates or refreshes a user keyed on github_id, in one statement.
//
// A naive SELECT-then-INSERT-or-UPDATE races: two first logins for the same
// GitHub account can both miss the SELECT and both INSERT, and only the
// UNIQUE constraint saves one of them — by failing the request. Instead we
// lean on SQLite's conflict-handling upsert:
//
//	INSERT ... ON CONFLICT(github_id) DO UPDATE SET <mirror fields>
//	RETURNING id, tier, created_at
//
// The insert branch writes a full row with a fresh xid and tier 'free'. The
// conflict branch refreshes only the profile mirror fields and updated_at —
// id, github_id, tier, and created_at are never in its SET list, so they
// stay whatever the existing row says. RETURNING hands back the surviving
// row's id/tier/created_at either way, which Upsert copies into user.
func (db *DB) Upsert(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()

	if user.ID == "" {
		user.ID = xid.New().String()
	}
	if user.Tier == "" {
		user.Tier = model.DefaultTier
	}
	user.UpdatedAt = now

	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO users (
			id, github_id, login, email, tier,
			name, avatar_url, html_url, company, location, bio,
			followers, twitter_username, github_created_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(github_id) DO UPDATE SET
			login             = excluded.login,
			email             = excluded.email,
			name              = excluded.name,
			avatar_url        = excluded.avatar_url,
			html_url          = excluded.html_url,
			company           = excluded.company,
			location          = excluded.location,
			bio               = excluded.bio,
			followers         = excluded.followers,
			twitter_username  = excluded.twitter_username,
			github_created_at = excluded.github_created_at,
			updated_at        = excluded.updated_at
		RETURNING id, tier, created_at`,
		user.ID,
		user.GitHubID,
		user.Login,
		user.Email,
		user.Tier,
		user.Name,
		user.AvatarURL,
		user.HTMLURL,
		user.Company,
		user.Location,
		user.Bio,
		user.Followers,
		user.TwitterUsername,
		user.GitHubCreatedAt,
		now,
		now,
	).Scan(&user.ID, &user.Tier, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: upserting user (githubID=%d): %w", user.GitHubID, err)
	}

	return nil
}

// GetByGitHubID retrieves a user by their GitHub numeric ID.
// Returns apperror.ErrNotFound if no user exists for that ID.
func (db *DB) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, `
		SELECT id, github_id, login, email, tier,
		       name, avatar_url, html_url, company, location, bio,
		       followers, twitter_username, github_created_at,
		       created_at, updated_at
		FROM users WHERE github_id = ?`,
		githubID,
	).Scan(
		&u.ID,
		&u.GitHubID,
		&u.Login,
		&u.Email,
		&u.Tier,
		&u.Name,
		&u.AvatarURL,
		&u.HTMLURL,
		&u.Company,
		&u.Location,
		&u.Bio,
		&u.Followers,
		&u.TwitterUsername,
		&u.GitHubCreatedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", strconv.FormatInt(githubID, 10))
		}
		return nil, fmt.Errorf("sqlite: getting user by github_id %d: %w", githubID, err)
	}

	return &u, nil
}
