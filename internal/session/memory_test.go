package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	sessions := []Session{
		{ID: "live", OwnerID: "o1", ExpiresAt: now.Add(time.Hour)},
		{ID: "just-expired", OwnerID: "o2", ExpiresAt: now},
		{ID: "old", OwnerID: "o3", ExpiresAt: now.Add(-48 * time.Hour)},
	}
	for _, s := range sessions {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("Save(%s) failed: %v", s.ID, err)
		}
	}

	if removed := store.Sweep(now); removed != 2 {
		t.Errorf("Sweep() removed %d sessions, want 2", removed)
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Active != 1 {
		t.Errorf("Stats().Active = %d after sweep, want 1", stats.Active)
	}
	if _, err := store.Get(ctx, "live"); err != nil {
		t.Errorf("live session was removed: %v", err)
	}
	if !stats.LastSweep.Equal(now) {
		t.Errorf("Stats().LastSweep = %v, want %v", stats.LastSweep, now)
	}
	if stats.Backend != "memory" {
		t.Errorf("Stats().Backend = %q, want memory", stats.Backend)
	}
}

func TestMemoryStore_GetHidesExpired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Save(ctx, Session{ID: "gone", ExpiresAt: time.Now().Add(-time.Second)})

	if _, err := store.Get(ctx, "gone"); err != ErrNoSession {
		t.Errorf("Get(expired) error = %v, want ErrNoSession", err)
	}
	if _, err := store.Get(ctx, "missing"); err != ErrNoSession {
		t.Errorf("Get(missing) error = %v, want ErrNoSession", err)
	}
	// Still held until swept.
	if n := activeCount(t, store); n != 1 {
		t.Errorf("Stats().Active = %d, want 1", n)
	}
}

func activeCount(t *testing.T, store *MemoryStore) int {
	t.Helper()
	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	return stats.Active
}
