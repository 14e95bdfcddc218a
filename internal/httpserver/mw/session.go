package mw

import (
	"net/http"

	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/session"
)

// Session resolves the caller's session, refreshes its cookie when close
// to expiry, and stores it in the request context. Anonymous requests pass
// through untouched.
func Session(m *session.Manager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := m.Current(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			refreshed, err := m.Refresh(r.Context(), w, s)
			if err != nil {
				log.Warn("session refresh failed", logger.String("owner_id", s.OwnerID), logger.Error(err))
			} else {
				s = refreshed
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

// RequireSession redirects anonymous callers to the home page, where the
// auth form is shown.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
