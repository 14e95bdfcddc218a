package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/session"
)

// quietPaths are polled by orchestrators and only show up at debug.
var quietPaths = map[string]bool{"/healthz": true, "/readyz": true}

// Log writes one "request served" line per request, tagged with the
// signed-in owner when the session middleware found one. 5xx goes to error
// and 4xx to warn.
func Log(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", status),
				logger.Int("bytes", ww.BytesWritten()),
				logger.Duration("took", time.Since(start)),
				logger.String("remote_addr", r.RemoteAddr),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}
			if s, ok := session.FromContext(r.Context()); ok {
				fields = append(fields, logger.String("owner_id", s.OwnerID))
			}

			emit := log.Info
			switch {
			case status >= http.StatusInternalServerError:
				emit = log.Error
			case status >= http.StatusBadRequest:
				emit = log.Warn
			case quietPaths[r.URL.Path]:
				emit = log.Debug
			}
			emit("request served", fields...)
		})
	}
}
