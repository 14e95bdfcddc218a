package scheduler

import (
	"sync"
	"time"

	"github.com/sageverse/tree/internal/logger"
)

// Sweeper drops expired sessions. Redis expires its keys on its own, so only
// the in-memory store needs one.
type Sweeper interface {
	Sweep(now time.Time) int
}

// SessionCollector periodically removes expired sessions.
type SessionCollector struct {
	store    Sweeper
	logger   logger.Logger
	interval time.Duration
	now      func() time.Time

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewSessionCollector creates a collector running every interval.
func NewSessionCollector(store Sweeper, log logger.Logger, interval time.Duration) *SessionCollector {
	return &SessionCollector{
		store:    store,
		logger:   log,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the periodic collection.
func (c *SessionCollector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		defer close(c.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Collect()
			case <-c.stopCh:
				return
			}
		}
	}()
}

// Stop stops the collector and waits for the loop to exit.
func (c *SessionCollector) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	<-c.done
}

// Collect runs one sweep and returns how many sessions were removed.
func (c *SessionCollector) Collect() int {
	removed := c.store.Sweep(c.now())
	if removed > 0 {
		c.logger.Info("expired sessions collected", logger.Int("removed", removed))
	} else {
		c.logger.Debug("no expired sessions to collect")
	}
	return removed
}
