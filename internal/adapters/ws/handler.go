package ws

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joltlabs/jolt/internal/domain/model"
	"github.com/joltlabs/jolt/pkg/logger"
	"github.com/joltlabs/jolt/pkg/metrics"
)

// Coordinator receives validated detection submissions from the channel.
// The transport is fire-and-forget: no result flows back to the client.
type Coordinator interface {
	OnSubmission(ctx context.Context, sub model.Submission)
}

// Handler upgrades HTTP requests into realtime channel sessions.
type Handler struct {
	hub          *Hub
	coord        Coordinator
	upgrader     websocket.Upgrader
	sendBuffer   int
	writeTimeout time.Duration
	log          logger.Logger
}

// HandlerOption applies a configuration option to the Handler.
type HandlerOption func(*Handler)

// WithSendBuffer sets the per-session outbound buffer size.
func WithSendBuffer(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

// WithWriteTimeout bounds individual socket writes.
func WithWriteTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.writeTimeout = d
		}
	}
}

// WithHandlerLogger sets a custom logger for the handler.
func WithHandlerLogger(l logger.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHandler creates the channel endpoint handler. Clients from any
// origin may connect; submissions carry no authentication.
func NewHandler(hub *Hub, coord Coordinator, opts ...HandlerOption) *Handler {
	h := &Handler{
		hub:   hub,
		coord: coord,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sendBuffer:   defaultSendBuffer,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.Get().Named("ws")
	}
	return h
}

// ServeHTTP upgrades the connection and runs the session until the peer
// disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client.
		h.log.Warn(r.Context(), "channel rejected", logger.Error(fmt.Errorf("%w: %v", ErrUpgrade, err)))
		return
	}

	sess := newSession(conn, h.sendBuffer, h.writeTimeout)
	h.hub.Register(sess)
	h.log.Info(r.Context(), "channel connected", logger.Int("connected", h.hub.Count()))

	go sess.writePump()
	h.readLoop(r.Context(), sess)

	h.hub.Unregister(sess)
	sess.close()
	h.log.Info(r.Context(), "channel disconnected", logger.Int("connected", h.hub.Count()))
}

// readLoop consumes upstream envelopes until the connection drops.
// Malformed or unknown messages are skipped; the submitter gets no
// feedback either way.
func (h *Handler) readLoop(ctx context.Context, sess *wsSession) {
	for {
		var env Envelope
		if err := sess.conn.ReadJSON(&env); err != nil {
			return
		}
		if env.Event != KindSubmitDetection {
			h.log.Debug(ctx, "ignoring message", logger.String("kind", env.Event))
			continue
		}
		sub, err := env.DecodeSubmission()
		if err != nil {
			h.log.Warn(ctx, "malformed submission dropped", logger.Error(err))
			continue
		}
		metrics.RecordSubmissionReceived()
		h.coord.OnSubmission(ctx, sub)
	}
}
