package audit

import (
	"context"
	"sync"
	"time"
)

// memoryCap bounds the in-memory store so a server running without a
// database cannot grow its history without limit.
const memoryCap = 1000

// Memory keeps history entries in process memory. It is the fallback
// store when no database is configured, and doubles as a test double.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Record(_ context.Context, p Params) (Entry, error) {
	e := NewEntry(p)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	if len(s.entries) > memoryCap {
		s.entries = s.entries[len(s.entries)-memoryCap:]
	}
	return e, nil
}

func (s *Memory) Recent(_ context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if limit > n {
		limit = n
	}

	// Newest first.
	out := make([]Entry, limit)
	for i := 0; i < limit; i++ {
		out[i] = s.entries[n-1-i]
	}
	return out, nil
}

func (s *Memory) PurgeOlderThan(_ context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	var purged int64
	for _, e := range s.entries {
		if e.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return purged, nil
}
