// Package shortener turns long public profile URLs into short ones through
// a third-party HTTP endpoint. It is best effort: on any failure the long
// URL is handed back unchanged.
package shortener

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sageverse/tree/internal/logger"
)

// maxBody caps how much of the endpoint's answer is read.
const maxBody = 2048

// DefaultRetryAfter is how long a failed URL is left alone before the
// background warm-up tries it again.
const DefaultRetryAfter = time.Minute

// Cache remembers earlier results. Implementations: MemoryCache and the
// Redis short link cache.
type Cache interface {
	Get(ctx context.Context, longURL string) (string, bool, error)
	Set(ctx context.Context, longURL, short string, ttl time.Duration) error
}

type Options struct {
	Endpoint   string        // empty disables shortening
	Timeout    time.Duration // per call
	CacheTTL   time.Duration
	RetryAfter time.Duration // zero => DefaultRetryAfter
}

type Shortener struct {
	endpoint   string
	client     *http.Client
	cache      Cache
	ttl        time.Duration
	retryAfter time.Duration
	log        logger.Logger
	now        func() time.Time

	flight singleflight.Group
	wg     sync.WaitGroup

	mu     sync.Mutex
	failed map[string]time.Time // long URL -> when it may be retried
	closed bool
}

// New builds a Shortener. cache may be nil.
func New(opts Options, cache Cache, log logger.Logger) *Shortener {
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = DefaultRetryAfter
	}
	return &Shortener{
		endpoint:   opts.Endpoint,
		client:     &http.Client{Timeout: opts.Timeout},
		cache:      cache,
		ttl:        opts.CacheTTL,
		retryAfter: opts.RetryAfter,
		log:        log,
		now:        time.Now,
		failed:     make(map[string]time.Time),
	}
}

// Lookup never waits on the endpoint. It returns the cached short form of
// longURL when there is one; otherwise it returns longURL and shortens it
// in the background so a later render can show the short form.
func (s *Shortener) Lookup(ctx context.Context, longURL string) string {
	if s.endpoint == "" || longURL == "" {
		return longURL
	}
	if short, ok := s.cached(ctx, longURL); ok {
		return short
	}
	s.warm(longURL)
	return longURL
}

func (s *Shortener) warm(longURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if until, ok := s.failed[longURL]; ok && s.now().Before(until) {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _, _ = s.flight.Do(longURL, func() (any, error) {
			if s.Shorten(context.Background(), longURL) == longURL {
				s.mu.Lock()
				s.failed[longURL] = s.now().Add(s.retryAfter)
				s.mu.Unlock()
			}
			return nil, nil
		})
	}()
}

// Close stops new background work and waits for what is in flight.
func (s *Shortener) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

// Shorten returns the shortened form of longURL, or longURL itself when
// shortening is disabled or fails. It never returns an empty string for a
// non-empty input. It blocks for up to the configured timeout.
func (s *Shortener) Shorten(ctx context.Context, longURL string) string {
	if s.endpoint == "" || longURL == "" {
		return longURL
	}
	if short, ok := s.cached(ctx, longURL); ok {
		return short
	}

	short, err := s.fetch(ctx, longURL)
	if err != nil {
		s.log.Warn("shortening failed, using long url",
			logger.String("url", longURL),
			logger.Error(err))
		return longURL
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, longURL, short, s.ttl); err != nil {
			s.log.Warn("short link cache write failed", logger.Error(err))
		}
	}
	s.mu.Lock()
	delete(s.failed, longURL)
	s.mu.Unlock()
	return short
}

func (s *Shortener) cached(ctx context.Context, longURL string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	short, ok, err := s.cache.Get(ctx, longURL)
	if err != nil {
		s.log.Warn("short link cache read failed", logger.Error(err))
		return "", false
	}
	return short, ok
}

func (s *Shortener) fetch(ctx context.Context, longURL string) (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("format", "simple")
	q.Set("url", longURL)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	short := strings.TrimSpace(string(body))
	if !strings.HasPrefix(short, "http") {
		return "", fmt.Errorf("response is not a url: %q", short)
	}
	return short, nil
}

// ShareURL is the public address of ownerID's profile under origin.
func ShareURL(origin, ownerID string) string {
	return strings.TrimRight(origin, "/") + "/u/" + url.PathEscape(ownerID)
}
