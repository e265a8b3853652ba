package app

import (
	"github.com/jonboulle/clockwork"
	"github.com/joltlabs/jolt/internal/adapters/repository"
	"github.com/joltlabs/jolt/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDatabaseURL selects the Postgres store. Empty keeps the in-memory
// store.
func WithDatabaseURL(url string) Option {
	return func(s *Service) {
		s.databaseURL = url
	}
}

// WithStore injects a pre-built store, bypassing URL-based selection.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithBroadcaster injects the broadcast hub. Tests use a fake.
func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) {
		if b != nil {
			s.hub = b
		}
	}
}

// WithClock injects the receipt-timestamp time source.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDGenerator overrides server-side event ID assignment.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}
