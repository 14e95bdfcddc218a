package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sageverse/tree/internal/httpserver/deps"
	"github.com/sageverse/tree/internal/logger"
)

const pingTimeout = 2 * time.Second

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	LastSweep  string `json:"last_sweep,omitempty"`
	Active     *int   `json:"active,omitempty"`
	Error      string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports whether the service can answer requests. The database is
// required; Redis counts only when configured.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		components := map[string]componentStatus{
			"database": ping(ctx, d, "database", d.Database),
			"template": templateStatus(d),
		}
		if d.Redis != nil {
			components["redis"] = ping(ctx, d, "redis", d.Redis)
		} else {
			components["redis"] = componentStatus{OK: true, Mode: "disabled"}
		}
		if d.SessionStats != nil {
			components["sessions"] = sessionStatus(ctx, d)
		}

		ready := true
		for _, c := range components {
			ready = ready && c.OK
		}

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(readyzResponse{Ready: ready, Components: components})
	}
}

func ping(ctx context.Context, d deps.Deps, name string, p deps.Pinger) componentStatus {
	if p == nil {
		return componentStatus{OK: false, Error: "not initialized"}
	}
	if err := p.Ping(ctx); err != nil {
		d.Logger.Warn("readiness check failed", logger.String("component", name), logger.Error(err))
		return componentStatus{OK: false, Error: "unreachable"}
	}
	return componentStatus{OK: true}
}

func templateStatus(d deps.Deps) componentStatus {
	if d.Seeds == nil {
		return componentStatus{OK: true, Mode: "builtin"}
	}
	last := d.Seeds.LastReload()
	if last.IsZero() {
		return componentStatus{OK: true, Mode: "builtin", LastReload: "never"}
	}
	return componentStatus{OK: true, Mode: "file", LastReload: last.Format("2006-01-02 15:04:05")}
}

// sessionStatus is informational: a failed count is reported but the store
// itself is already covered by the database or redis ping.
func sessionStatus(ctx context.Context, d deps.Deps) componentStatus {
	stats, err := d.SessionStats.Stats(ctx)
	if err != nil {
		d.Logger.Warn("session stats unavailable", logger.Error(err))
		return componentStatus{OK: true, Error: "stats unavailable"}
	}
	st := componentStatus{OK: true, Mode: stats.Backend, Active: &stats.Active}
	if stats.Backend == "memory" {
		st.LastSweep = "never"
		if !stats.LastSweep.IsZero() {
			st.LastSweep = stats.LastSweep.Format("2006-01-02 15:04:05")
		}
	}
	return st
}
