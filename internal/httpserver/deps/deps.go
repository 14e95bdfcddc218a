package deps

import (
	"context"
	"time"

	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/profile"
	"github.com/sageverse/tree/internal/seed"
	"github.com/sageverse/tree/internal/session"
	"github.com/sageverse/tree/internal/shortener"
	"github.com/sageverse/tree/internal/view"
)

// Pinger is anything /readyz can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	AllowedHosts  []string         // Host headers allowed to reach /reload
	AllowedCIDRS  []string         // IPs allowed to reach /readyz and /reload
	TrustProxy    bool             // read the caller IP and origin from forwarding headers
	PublicBaseURL string           // origin used in shareable links, empty => derived from the request

	Sessions     *session.Manager
	Synchronizer *profile.Synchronizer
	Public       *profile.PublicFetcher
	Shortener    *shortener.Shortener
	Renderer     *view.Renderer
	Seeds        *seed.Source

	Database     Pinger                // always set
	Redis        Pinger                // nil when Redis is not configured
	SessionStats session.StatsReporter // nil hides the sessions component of /readyz

	ReloadTrigger chan struct{} // manual template reload
}
