// Package app provides the broadcast coordinator: the core service that
// persists incoming detections and republishes them to every connected
// channel.
package app

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/joltlabs/jolt/internal/adapters/repository"
	"github.com/joltlabs/jolt/internal/adapters/ws"
	"github.com/joltlabs/jolt/internal/domain/model"
	"github.com/joltlabs/jolt/pkg/logger"
	"github.com/joltlabs/jolt/pkg/metrics"
)

// Broadcaster fans a persisted event out to all connected channels.
type Broadcaster interface {
	Broadcast(ctx context.Context, e model.Event)
	Count() int
}

// Service implements the broadcast coordinator and the dependencies
// required by the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store repository.Store
	hub   Broadcaster

	// Configuration
	databaseURL string
	clock       clockwork.Clock
	newID       func() string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		clock: clockwork.NewRealClock(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the store and broadcast hub. With no database URL
// configured the service runs on the in-memory store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}

	if s.store == nil {
		if s.databaseURL != "" {
			store, err := repository.OpenPostgres(ctx, s.databaseURL)
			if err != nil {
				return err
			}
			s.store = store
			s.logger.Info(ctx, "using postgres event store")
		} else {
			s.store = repository.NewMemoryStore()
			s.logger.Info(ctx, "using in-memory event store")
		}
	}
	if s.hub == nil {
		s.hub = ws.NewHub(ws.WithHubLogger(s.logger.Named("hub")))
	}

	s.started = true
	s.logger.Info(ctx, "pothole service started")
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "pothole service stopped")
}

// Hub exposes the broadcast set for the channel handler.
func (s *Service) Hub() Broadcaster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub
}

// OnSubmission turns an upstream submission into a persisted event and
// broadcasts it. The write completes before any broadcast is attempted,
// so every observed broadcast has a durable record behind it. A failed
// write is logged and the event silently dropped: the transport carries
// no acknowledgment channel to report it on.
func (s *Service) OnSubmission(ctx context.Context, sub model.Submission) {
	e := model.Event{
		ID:        s.newID(),
		Latitude:  sub.Latitude,
		Longitude: sub.Longitude,
		Intensity: sub.Intensity,
		Timestamp: s.clock.Now().UTC(),
	}

	if err := s.store.Insert(ctx, e); err != nil {
		metrics.RecordPersistFailure()
		s.logger.Error(ctx, "failed to persist event",
			logger.String("event_id", e.ID),
			logger.Float64("intensity", e.Intensity),
			logger.Error(err),
		)
		return
	}
	metrics.RecordEventPersisted()

	s.hub.Broadcast(ctx, e)
	s.logger.Debug(ctx, "event persisted and broadcast",
		logger.String("event_id", e.ID),
		logger.Float64("latitude", e.Latitude),
		logger.Float64("longitude", e.Longitude),
	)
}

// Events returns all persisted events newest first.
func (s *Service) Events(ctx context.Context) ([]model.Event, error) {
	return s.store.List(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}
	if s.started {
		stats["connectedChannels"] = s.hub.Count()
		if n, err := s.store.Count(context.Background()); err == nil {
			stats["storedEvents"] = n
			metrics.UpdateStoredEvents(n)
		}
	}
	return stats
}
