package profile

import (
	"context"
	"sync"
	"time"

	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/session"
)

// Prefetcher warms an owner's profile as soon as they sign in or their
// token is refreshed, so the first dashboard render finds initialized rows.
type Prefetcher struct {
	synchronizer *Synchronizer
	manager      *session.Manager
	timeout      time.Duration
	log          logger.Logger

	sub     *session.Subscription
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func NewPrefetcher(s *Synchronizer, m *session.Manager, timeout time.Duration, log logger.Logger) *Prefetcher {
	return &Prefetcher{
		synchronizer: s,
		manager:      m,
		timeout:      timeout,
		log:          log,
	}
}

// Start subscribes to session events.
func (p *Prefetcher) Start() {
	p.sub = p.manager.Subscribe(p.handle)
}

// Stop unsubscribes and waits for in-flight loads.
func (p *Prefetcher) Stop() {
	if p.sub != nil {
		p.sub.Unsubscribe()
	}
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Prefetcher) handle(ev session.Event) {
	if ev.Kind != session.SignedIn && ev.Kind != session.TokenRefreshed {
		return
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		if _, err := p.synchronizer.Load(ctx, ev.Session.OwnerID); err != nil {
			p.log.Warn("prefetch failed",
				logger.String("owner_id", ev.Session.OwnerID),
				logger.String("event", ev.Kind.String()),
				logger.Error(err))
		}
	}()
}
