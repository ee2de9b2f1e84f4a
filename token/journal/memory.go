package journal

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store for tests and ephemeral ledgers.
type MemoryStore struct {
	mu      sync.Mutex
	streams map[string][]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{streams: make(map[string][]Record)}
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, stream string, expectedVersion int64, recs []Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := int64(len(s.streams[stream])) - 1
	if cur != expectedVersion {
		return 0, fmt.Errorf("%w: stream %q is at version %d, expected %d",
			ErrVersionConflict, stream, cur, expectedVersion)
	}
	version := cur
	for i := range recs {
		version++
		recs[i].Version = version
	}
	s.streams[stream] = append(s.streams[stream], recs...)
	return version, nil
}

// Read implements Store.
func (s *MemoryStore) Read(ctx context.Context, stream string, from int64) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.streams[stream]
	if from < 0 {
		from = 0
	}
	if from >= int64(len(recs)) {
		return nil, nil
	}
	out := make([]Record, len(recs)-int(from))
	copy(out, recs[from:])
	return out, nil
}

// Close implements Store. It is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
