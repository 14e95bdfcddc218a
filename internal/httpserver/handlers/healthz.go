package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sageverse/tree/internal/httpserver/deps"
)

type liveness struct {
	Status    string  `json:"status"`
	Service   string  `json:"service"`
	Uptime    float64 `json:"uptime_seconds"`
	Version   string  `json:"version,omitempty"`
	Commit    string  `json:"commit,omitempty"`
	BuildDate string  `json:"build_date,omitempty"`
	GoVersion string  `json:"go_version,omitempty"`
}

// Healthz answers as long as the process can serve HTTP. Storage is
// checked by Readyz, never here.
func Healthz(d deps.Deps) http.HandlerFunc {
	clock := d.TimeNow
	if clock == nil {
		clock = time.Now
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(liveness{
			Status:    "ok",
			Service:   "sageverse-tree",
			Uptime:    clock().Sub(d.StartTime).Seconds(),
			Version:   d.Version,
			Commit:    d.Commit,
			BuildDate: d.BuildDate,
			GoVersion: d.GoVersion,
		})
	}
}
