// Package model defines the data structures used throughout the application.
package model

import "time"

// DefaultTier is the plan assigned to every user at first contact.
const DefaultTier = "free"

// User represents an account materialized from a GitHub identity.
//
// GitHub is the only identity provider, so the stable external identifier is
// GitHub's numeric user ID. We still generate our own internal string ID (xid)
// so primary keys are not tied to a third party's numbering scheme. The UNIQUE
// constraint on github_id in the DB ensures one GitHub account maps to exactly
// one local account.
//
// Optional profile fields (Email, Name, Company, ...) use the empty string as
// the zero value rather than nullable pointers. Email additionally gets a
// synthetic "<login>@github" fallback during reconciliation so it is never
// empty in storage.
//
// Tier is written exactly once, at creation ("free"). Reconciliation never
// touches it afterwards; a billing system owns it from then on. ID, GitHubID,
// and CreatedAt are likewise immutable once the row exists.
type User struct {
	ID              string    `json:"id"              db:"id"`
	GitHubID        int64     `json:"githubId"        db:"github_id"` // GitHub's numeric user ID
	Login           string    `json:"login"           db:"login"`     // GitHub username, e.g. "octocat"
	Email           string    `json:"email"           db:"email"`
	Tier            string    `json:"tier"            db:"tier"`
	Name            string    `json:"name"            db:"name"`
	AvatarURL       string    `json:"avatarUrl"       db:"avatar_url"`
	HTMLURL         string    `json:"htmlUrl"         db:"html_url"` // GitHub profile page
	Company         string    `json:"company"         db:"company"`
	Location        string    `json:"location"        db:"location"`
	Bio             string    `json:"bio"             db:"bio"`
	Followers       int64     `json:"followers"       db:"followers"`
	TwitterUsername string    `json:"twitterUsername" db:"twitter_username"`
	GitHubCreatedAt time.Time `json:"githubCreatedAt" db:"github_created_at"` // account creation on GitHub's side
	CreatedAt       time.Time `json:"createdAt"       db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt"       db:"updated_at"`
}
