package ws

import (
	"context"
	"sync"

	"github.com/joltlabs/jolt/internal/domain/model"
	"github.com/joltlabs/jolt/pkg/logger"
	"github.com/joltlabs/jolt/pkg/metrics"
)

// Session is one registered channel endpoint. Send must not block: it
// queues the envelope and reports false when the session cannot keep up.
type Session interface {
	Send(env Envelope) bool
}

// Hub tracks connected sessions and fans events out to all of them.
// A slow session drops messages; it never stalls persistence or peers.
type Hub struct {
	mu       sync.RWMutex
	sessions map[Session]struct{}
	log      logger.Logger
}

// HubOption applies a configuration option to the Hub.
type HubOption func(*Hub)

// WithHubLogger sets a custom logger for the hub.
func WithHubLogger(l logger.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{sessions: make(map[Session]struct{})}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.Get().Named("hub")
	}
	return h
}

// Register adds a session to the broadcast set.
func (h *Hub) Register(s Session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	n := len(h.sessions)
	h.mu.Unlock()
	metrics.UpdateConnectedChannels(n)
}

// Unregister removes a session. Disconnection needs no other cleanup.
func (h *Hub) Unregister(s Session) {
	h.mu.Lock()
	delete(h.sessions, s)
	n := len(h.sessions)
	h.mu.Unlock()
	metrics.UpdateConnectedChannels(n)
}

// Count returns the number of connected sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast pushes an event to every connected session, including the
// one that originated it. Every session currently registered receives
// exactly one envelope, unless its buffer is full.
func (h *Hub) Broadcast(ctx context.Context, e model.Event) {
	env, err := NewBroadcast(e)
	if err != nil {
		h.log.Error(ctx, "failed to frame broadcast", logger.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]Session, 0, len(h.sessions))
	for s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if s.Send(env) {
			metrics.RecordBroadcastSent()
			continue
		}
		metrics.RecordBroadcastDrop()
		h.log.Warn(ctx, "dropping broadcast for slow channel", logger.String("event_id", e.ID))
	}
}
