package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sageverse/tree/internal/httpserver/deps"
	"github.com/sageverse/tree/internal/logger"
)

type reloadResponse struct {
	Queued     bool   `json:"queued"`
	Template   string `json:"template,omitempty"`
	LastReload string `json:"last_reload"`
}

// Reload queues a re-read of the default template file. At most one request
// is queued; a second one before the reloader picks it up gets 429.
// The body names the template in effect right now, not the one being loaded.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ReloadTrigger == nil {
			http.Error(w, "template reload is not configured\n", http.StatusNotFound)
			return
		}

		resp := reloadResponse{LastReload: "never"}
		if d.Seeds != nil {
			resp.Template = d.Seeds.Current().Name
			if last := d.Seeds.LastReload(); !last.IsZero() {
				resp.LastReload = last.Format("2006-01-02 15:04:05")
			}
		}

		status := http.StatusAccepted
		select {
		case d.ReloadTrigger <- struct{}{}:
			resp.Queued = true
			d.Logger.Info("template reload queued", logger.String("remote_ip", r.RemoteAddr))
		default:
			status = http.StatusTooManyRequests
			d.Logger.Warn("template reload already queued", logger.String("remote_ip", r.RemoteAddr))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			d.Logger.Debug("reload response not written", logger.Error(err))
		}
	}
}
