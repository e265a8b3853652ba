package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/joltlabs/jolt/internal/domain/model"
	"github.com/joltlabs/jolt/pkg/metrics"
)

// MemoryStore is an append-only in-memory Store. It is the default when
// no database URL is configured and the fixture store for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   []memoryRow
	seq    uint64
	closed bool
}

type memoryRow struct {
	event model.Event
	seq   uint64
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithSeed pre-populates the store, preserving slice order as insertion
// order. Intended for tests.
func WithSeed(events []model.Event) MemoryOption {
	return func(s *MemoryStore) {
		for _, e := range events {
			s.seq++
			s.rows = append(s.rows, memoryRow{event: e, seq: s.seq})
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert appends an event.
func (s *MemoryStore) Insert(_ context.Context, e model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.seq++
	s.rows = append(s.rows, memoryRow{event: e, seq: s.seq})
	metrics.UpdateStoredEvents(len(s.rows))
	return nil
}

// List returns all events newest first: timestamp descending, with the
// later insertion winning ties.
func (s *MemoryStore) List(_ context.Context) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	rows := make([]memoryRow, len(s.rows))
	copy(rows, s.rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].event.Timestamp.Equal(rows[j].event.Timestamp) {
			return rows[i].event.Timestamp.After(rows[j].event.Timestamp)
		}
		return rows[i].seq > rows[j].seq
	})

	out := make([]model.Event, len(rows))
	for i, r := range rows {
		out[i] = r.event
	}
	return out, nil
}

// Count returns the number of stored events.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrClosed
	}
	return len(s.rows), nil
}

// Close marks the store closed; subsequent calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
