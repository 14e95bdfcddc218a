package mw

import (
	"net/http"
	"strings"

	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/utils"
)

// hostList holds lowercased host names. An entry "*.example.com" covers
// every subdomain of example.com but not example.com itself.
type hostList []string

func newHostList(hosts []string) hostList {
	l := make(hostList, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			l = append(l, h)
		}
	}
	return l
}

func (l hostList) allows(host string) bool {
	host = strings.ToLower(utils.ParseHostNoPort(host))
	for _, want := range l {
		if host == want {
			return true
		}
		if suffix, ok := strings.CutPrefix(want, "*"); ok && strings.HasPrefix(suffix, ".") && strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// EnforceHost answers 403 unless the Host header, port stripped, is in
// allowedHosts. With no hosts configured every request passes.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	hosts := newHostList(allowedHosts)
	if len(hosts) == 0 {
		log.Debug("host check disabled, no allowed hosts configured")
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hosts.allows(r.Host) {
				log.Warn("host rejected",
					logger.String("host", r.Host),
					logger.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
