package profile

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sageverse/tree/internal/backend"
	"github.com/sageverse/tree/internal/domain"
)

// fakeData is an in-memory backend.Data with error injection.
type fakeData struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
	links    map[string][]domain.Link

	getDelay time.Duration

	getErr     error
	listErr    error
	updateErr  error
	replaceErr error

	getCalls    int
	createCalls int
	seedCalls   int
	writes      int
}

func newFakeData() *fakeData {
	return &fakeData{
		profiles: make(map[string]domain.Profile),
		links:    make(map[string][]domain.Link),
	}
}

func (f *fakeData) GetProfile(_ context.Context, ownerID string) (domain.Profile, error) {
	time.Sleep(f.getDelay)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return domain.Profile{}, f.getErr
	}
	p, ok := f.profiles[ownerID]
	if !ok {
		return domain.Profile{}, backend.ErrNotFound
	}
	return p, nil
}

func (f *fakeData) CreateProfile(_ context.Context, p domain.Profile) (domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if existing, ok := f.profiles[p.OwnerID]; ok {
		return existing, nil
	}
	f.profiles[p.OwnerID] = p
	f.writes++
	return p, nil
}

func (f *fakeData) UpdateProfile(_ context.Context, p domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.profiles[p.OwnerID]; !ok {
		return backend.ErrNotFound
	}
	f.profiles[p.OwnerID] = p
	f.writes++
	return nil
}

func (f *fakeData) ListLinks(_ context.Context, ownerID string) ([]domain.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(ownerID), nil
}

func (f *fakeData) SeedLinks(_ context.Context, ownerID string, links []domain.Link) ([]domain.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seedCalls++
	if len(f.links[ownerID]) == 0 {
		f.links[ownerID] = append([]domain.Link(nil), links...)
		f.writes++
	}
	return f.sorted(ownerID), nil
}

func (f *fakeData) ReplaceLinks(_ context.Context, ownerID string, links []domain.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.links[ownerID] = append([]domain.Link(nil), links...)
	f.writes++
	return nil
}

func (f *fakeData) Ping(context.Context) error { return nil }

func (f *fakeData) sorted(ownerID string) []domain.Link {
	out := append([]domain.Link(nil), f.links[ownerID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (f *fakeData) counts(ownerID string) (profiles, links int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[ownerID]; ok {
		profiles = 1
	}
	return profiles, len(f.links[ownerID])
}

type fakeAuth struct{}

func (fakeAuth) SignUp(context.Context, string, string) (backend.SignUpResult, error) {
	return backend.SignUpResult{}, nil
}

func (fakeAuth) Authenticate(_ context.Context, email, _ string) (backend.Account, error) {
	return backend.Account{ID: "owner-" + email, Email: email, Confirmed: true}, nil
}

func (fakeAuth) Confirm(context.Context, string) (backend.Account, error) {
	return backend.Account{}, backend.ErrInvalidToken
}

func (fakeAuth) Account(context.Context, string) (backend.Account, error) {
	return backend.Account{}, backend.ErrNotFound
}
