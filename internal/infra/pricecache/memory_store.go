package pricecache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry struct {
	snap      Snapshot
	expiresAt time.Time
}

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	clock   clockwork.Clock
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		entries: make(map[string]entry),
		clock:   clock,
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, region string) (Snapshot, bool, error) {
	key := regionKey(region)
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, false, nil
	}
	if !e.expiresAt.IsZero() && !s.clock.Now().Before(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return Snapshot{}, false, nil
	}
	return e.snap, true, nil
}

// Save implements Store. A non-positive ttl keeps the snapshot until replaced.
func (s *MemoryStore) Save(_ context.Context, snap Snapshot, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = s.clock.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[regionKey(snap.Region)] = entry{snap: snap, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
