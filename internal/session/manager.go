package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sageverse/tree/internal/backend"
	"github.com/sageverse/tree/internal/logger"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "tree_session"

type Options struct {
	Secret        string
	TTL           time.Duration // lifetime of a session
	RefreshWindow time.Duration // re-issue when expiry is closer than this
	SecureCookies bool

	// Now is overridable in tests.
	Now func() time.Time
}

// Manager is the session context shared by every handler.
type Manager struct {
	auth   backend.Auth
	store  Store
	codec  tokenCodec
	opts   Options
	broker *broker
	log    logger.Logger
}

func NewManager(auth backend.Auth, store Store, opts Options, log logger.Logger) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		auth:   auth,
		store:  store,
		codec:  tokenCodec{secret: []byte(opts.Secret)},
		opts:   opts,
		broker: newBroker(),
		log:    log,
	}
}

// Subscribe registers fn for every future auth-state change.
// fn runs on the goroutine that caused the change and must not block.
func (m *Manager) Subscribe(fn func(Event)) *Subscription {
	return m.broker.add(fn)
}

// Current resolves the session of r, or returns ErrNoSession.
func (m *Manager) Current(r *http.Request) (Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Session{}, ErrNoSession
	}

	id, ownerID, err := m.codec.parse(c.Value, m.opts.Now())
	if err != nil {
		return Session{}, err
	}

	s, err := m.store.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			m.log.Warn("session lookup failed", logger.String("session_id", id), logger.Error(err))
		}
		return Session{}, ErrNoSession
	}
	if s.OwnerID != ownerID || s.Expired(m.opts.Now()) {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Refresh re-issues the cookie of s when it is about to expire and
// publishes TokenRefreshed. Sessions outside the window are returned as is.
func (m *Manager) Refresh(ctx context.Context, w http.ResponseWriter, s Session) (Session, error) {
	now := m.opts.Now()
	if s.ExpiresAt.Sub(now) > m.opts.RefreshWindow {
		return s, nil
	}

	s.IssuedAt = now
	s.ExpiresAt = now.Add(m.opts.TTL)
	if err := m.issue(ctx, w, s); err != nil {
		return Session{}, err
	}

	m.log.Debug("session refreshed", logger.String("owner_id", s.OwnerID))
	m.broker.publish(Event{Kind: TokenRefreshed, Session: s})
	return s, nil
}

// SignIn checks the credential pair, starts a session and sets its cookie.
func (m *Manager) SignIn(ctx context.Context, w http.ResponseWriter, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, backend.ErrMissingCredentials
	}

	acc, err := m.auth.Authenticate(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	now := m.opts.Now()
	s := Session{
		ID:        uuid.NewString(),
		OwnerID:   acc.ID,
		Email:     acc.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.opts.TTL),
	}
	if err := m.issue(ctx, w, s); err != nil {
		return Session{}, err
	}

	m.log.Info("signed in", logger.String("owner_id", s.OwnerID))
	m.broker.publish(Event{Kind: SignedIn, Session: s})
	return s, nil
}

// SignUp registers an account. It never starts a session: the user signs
// in afterwards (once confirmed, when confirmation is required).
func (m *Manager) SignUp(ctx context.Context, email, password string) (backend.SignUpResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return backend.SignUpResult{}, backend.ErrMissingCredentials
	}
	return m.auth.SignUp(ctx, email, password)
}

// Confirm activates the account holding token.
func (m *Manager) Confirm(ctx context.Context, token string) (backend.Account, error) {
	if token == "" {
		return backend.Account{}, backend.ErrInvalidToken
	}
	return m.auth.Confirm(ctx, token)
}

// SignOut ends the session of r, if any, and clears the cookie.
func (m *Manager) SignOut(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	m.clearCookie(w)

	s, err := m.Current(r)
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	m.log.Info("signed out", logger.String("owner_id", s.OwnerID))
	m.broker.publish(Event{Kind: SignedOut, Session: s})
	return nil
}

func (m *Manager) issue(ctx context.Context, w http.ResponseWriter, s Session) error {
	token, err := m.codec.sign(s)
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

type ctxKey struct{}

// WithSession stores s in ctx for downstream handlers.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session put there by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
