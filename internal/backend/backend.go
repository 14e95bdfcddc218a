// Package backend declares the data and auth contracts the application
// consumes. Implementations live under internal/store.
package backend

import (
	"context"
	"errors"
	"time"

	"github.com/sageverse/tree/internal/domain"
)

var (
	// ErrNotFound is returned by single-row reads when no row matches.
	ErrNotFound = errors.New("backend: no matching row")

	ErrEmailTaken         = errors.New("backend: user already registered")
	ErrInvalidCredentials = errors.New("backend: invalid login credentials")
	ErrNotConfirmed       = errors.New("backend: email not confirmed")
	ErrInvalidToken       = errors.New("backend: confirmation token is invalid")
	ErrMissingCredentials = errors.New("backend: email and password are required")
)

// Data is row access to profiles and links, keyed by owner identity.
type Data interface {
	// GetProfile returns ErrNotFound when the owner has no profile row.
	GetProfile(ctx context.Context, ownerID string) (domain.Profile, error)
	// CreateProfile inserts p unless a row for p.OwnerID already exists,
	// and returns the row that is stored afterwards.
	CreateProfile(ctx context.Context, p domain.Profile) (domain.Profile, error)
	// UpdateProfile overwrites name, bio and avatar URL.
	UpdateProfile(ctx context.Context, p domain.Profile) error

	// ListLinks returns the owner's links ordered by position ascending.
	ListLinks(ctx context.Context, ownerID string) ([]domain.Link, error)
	// SeedLinks inserts links only when the owner has none, and returns
	// whatever the owner has afterwards.
	SeedLinks(ctx context.Context, ownerID string, links []domain.Link) ([]domain.Link, error)
	// ReplaceLinks atomically swaps the owner's full link set.
	ReplaceLinks(ctx context.Context, ownerID string, links []domain.Link) error

	Ping(ctx context.Context) error
}

// Account is an authenticated identity.
type Account struct {
	ID        string
	Email     string
	Confirmed bool
	CreatedAt time.Time
}

// SignUpResult carries the confirmation token when the account still needs confirming.
type SignUpResult struct {
	Account           Account
	ConfirmationToken string
}

// Auth manages credential pairs.
type Auth interface {
	SignUp(ctx context.Context, email, password string) (SignUpResult, error)
	Authenticate(ctx context.Context, email, password string) (Account, error)
	Confirm(ctx context.Context, token string) (Account, error)
	Account(ctx context.Context, id string) (Account, error)
}
