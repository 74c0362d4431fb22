package history

import (
	"context"
	"sync"
)

// MemoryStore is the default Store: a mutex-guarded slice, newest
// first, truncated to the retention limit. Suitable for single-process
// deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	limit   int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a bounded in-memory store. A non-positive
// limit falls back to DefaultLimit.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{limit: limit}
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]Record, 0, len(s.records)+1)
	updated = append(updated, rec)
	updated = append(updated, s.records...)
	if len(updated) > s.limit {
		updated = updated[:s.limit]
	}
	s.records = updated
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
