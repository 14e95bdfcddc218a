// Package session tracks signed-in browsers and publishes auth-state changes.
//
// A session is a server-side record referenced by a signed JWT cookie. The
// record lives in a Store (Redis or memory); the cookie only carries its id.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned when a request carries no valid session.
var ErrNoSession = errors.New("session: not signed in")

// Session is one signed-in browser.
type Session struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether s is no longer usable at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// EventKind names an auth-state change.
type EventKind int

const (
	SignedIn EventKind = iota
	SignedOut
	TokenRefreshed
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	case TokenRefreshed:
		return "token_refreshed"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers. For SignedOut, Session is the record
// that was just removed.
type Event struct {
	Kind    EventKind
	Session Session
}

// Store persists session records.
type Store interface {
	Save(ctx context.Context, s Session) error
	// Get returns ErrNoSession for unknown or expired ids.
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Stats describes what a Store currently holds.
type Stats struct {
	Backend   string    // "memory" | "redis"
	Active    int       // records held
	LastSweep time.Time // zero until the first sweep; always zero for redis
}

// StatsReporter is implemented by stores that can describe their contents.
type StatsReporter interface {
	Stats(ctx context.Context) (Stats, error)
}
