// Package repository defines the pothole event store interface and its
// in-memory and Postgres implementations.
package repository

import (
	"context"

	"github.com/joltlabs/jolt/internal/domain/model"
)

// Store provides append-only access to persisted pothole events. Events
// are never updated or deleted.
type Store interface {
	// Insert durably appends an event. Implementations must tolerate
	// concurrent inserts.
	Insert(ctx context.Context, e model.Event) error

	// List returns all events ordered by timestamp descending. Ties are
	// broken by insertion order, newest insertion first.
	List(ctx context.Context) ([]model.Event, error)

	// Count returns the number of persisted events.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
