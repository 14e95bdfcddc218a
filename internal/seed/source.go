package seed

import (
	"sync"
	"time"

	"github.com/sageverse/tree/internal/domain"
)

// Source holds the template currently in effect.
// It is swapped wholesale on reload; readers never see a partial template.
type Source struct {
	mu         sync.RWMutex
	tpl        *domain.Template
	lastReload time.Time
}

// NewSource starts with tpl, or the built-in defaults when tpl is nil.
func NewSource(tpl *domain.Template) *Source {
	if tpl == nil {
		tpl = domain.DefaultTemplate()
	}
	return &Source{tpl: tpl}
}

// Current returns the active template. Callers must not mutate it.
func (s *Source) Current() *domain.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tpl
}

// Replace swaps in a new template.
func (s *Source) Replace(tpl *domain.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tpl = tpl
	s.lastReload = time.Now()
}

// LastReload is zero until the first Replace.
func (s *Source) LastReload() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReload
}
