package mw

import (
	"net/http"

	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/utils"
)

// AllowOnlyCIDRS lets through only callers whose IP is in allowed (IPs or
// CIDRs). An empty list disables the check. With trustProxy the caller is
// taken from forwarding headers instead of RemoteAddr.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("ip check disabled, no allowed CIDRs configured")
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("ip rejected",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
