package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepThreshold is the tracked-key count above which expired entries
// are purged on the next increment.
const DefaultSweepThreshold = 10000

// MemoryStore keeps entries in process memory. State resets on restart and is
// not shared between instances; use RedisStore for that.
type MemoryStore struct {
	mu             sync.Mutex
	entries        map[string]Entry
	sweepThreshold int
}

func NewMemoryStore(sweepThreshold int) *MemoryStore {
	if sweepThreshold <= 0 {
		sweepThreshold = DefaultSweepThreshold
	}
	return &MemoryStore{
		entries:        make(map[string]Entry),
		sweepThreshold: sweepThreshold,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	return entry, ok, nil
}

func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration, now time.Time) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) > s.sweepThreshold {
		s.sweepLocked(now)
	}

	entry, ok := s.entries[key]
	if !ok || entry.Expired(now) {
		// replaced, never merged with the old window
		entry = Entry{Count: 1, ResetAt: now.Add(window)}
	} else {
		entry.Count++
	}
	s.entries[key] = entry
	return entry, nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(now), nil
}

func (s *MemoryStore) sweepLocked(now time.Time) int {
	removed := 0
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identifiers.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartSweeper purges expired entries every interval until ctx is done.
// Optional: the size-triggered sweep in Increment already bounds memory.
func StartSweeper(ctx context.Context, store Store, interval time.Duration, onSweep func(removed int, err error)) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				removed, err := store.Sweep(ctx, now)
				if onSweep != nil {
					onSweep(removed, err)
				}
			}
		}
	}()
}
