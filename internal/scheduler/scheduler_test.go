package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sageverse/tree/internal/domain"
	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/seed"
	"github.com/sageverse/tree/internal/session"
)

func TestSessionCollectorCollect(t *testing.T) {
	store := session.NewMemoryStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, session.Session{ID: "live", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, session.Session{ID: "old", ExpiresAt: now.Add(-time.Minute)}))

	c := NewSessionCollector(store, logger.Nop(), time.Hour)
	c.now = func() time.Time { return now }

	assert.Equal(t, 1, c.Collect())
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, now, stats.LastSweep)
	assert.Equal(t, 0, c.Collect())
}

func TestSessionCollectorStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewSessionCollector(session.NewMemoryStore(), logger.Nop(), time.Millisecond)
	c.Start()
	time.Sleep(5 * time.Millisecond)
	c.Stop()
	c.Stop()
}

type stubLoader struct {
	mu    sync.Mutex
	tpl   *domain.Template
	err   error
	calls int
}

func (s *stubLoader) Load() (*domain.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.tpl, nil
}

func (s *stubLoader) set(tpl *domain.Template, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tpl, s.err = tpl, err
}

func (s *stubLoader) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func namedTemplate(name string) *domain.Template {
	tpl := domain.DefaultTemplate()
	tpl.Name = name
	return tpl
}

func TestTemplateReloaderKeepsPreviousOnFailure(t *testing.T) {
	src := seed.NewSource(nil)
	loader := &stubLoader{tpl: namedTemplate("first")}
	r := NewTemplateReloader(loader, src, logger.Nop(), time.Hour, nil)

	require.NoError(t, r.Reload())
	assert.Equal(t, "first", src.Current().Name)

	loader.set(nil, errors.New("yaml: bad indentation"))
	require.Error(t, r.Reload())
	assert.Equal(t, "first", src.Current().Name)
}

func TestTemplateReloaderInitialFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := seed.NewSource(nil)
	loader := &stubLoader{err: errors.New("no such file")}
	r := NewTemplateReloader(loader, src, logger.Nop(), time.Hour, nil)

	require.Error(t, r.Start(context.Background()))
	assert.Equal(t, "Sageverse Tree", src.Current().Name)
	r.Stop()
}

func TestTemplateReloaderManualTrigger(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := seed.NewSource(nil)
	loader := &stubLoader{tpl: namedTemplate("first")}
	trigger := make(chan struct{}, 1)
	r := NewTemplateReloader(loader, src, logger.Nop(), time.Hour, trigger)

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	loader.set(namedTemplate("second"), nil)
	trigger <- struct{}{}

	assert.Eventually(t, func() bool {
		return src.Current().Name == "second"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, loader.callCount())
}

func TestTemplateReloaderStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	r := NewTemplateReloader(&stubLoader{tpl: namedTemplate("x")}, seed.NewSource(nil), logger.Nop(), time.Hour, nil)

	require.NoError(t, r.Start(ctx))
	cancel()
	r.Stop()
}
