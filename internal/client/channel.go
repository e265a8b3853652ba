package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/joltlabs/jolt/internal/adapters/ws"
	"github.com/joltlabs/jolt/internal/domain/model"
)

const broadcastBuffer = 64

// WSChannel is the websocket-backed realtime channel: submissions go
// upstream, broadcast events come downstream.
type WSChannel struct {
	conn *websocket.Conn

	// writeMu serializes writes; gorilla allows one concurrent writer.
	writeMu sync.Mutex

	broadcasts chan model.Event
	closeOnce  sync.Once
}

// Dial opens a channel to the server's /ws endpoint.
func Dial(ctx context.Context, url string) (*WSChannel, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial channel: %w", err)
	}

	c := &WSChannel{
		conn:       conn,
		broadcasts: make(chan model.Event, broadcastBuffer),
	}
	go c.readLoop()
	return c, nil
}

// Submit sends a detection upstream. Fire-and-forget: the server never
// acknowledges, and callers are expected to ignore the error.
func (c *WSChannel) Submit(sub model.Submission) error {
	env, err := ws.NewSubmission(sub)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}

// Broadcasts returns the downstream event stream. The channel closes
// when the connection drops.
func (c *WSChannel) Broadcasts() <-chan model.Event {
	return c.broadcasts
}

// Close tears the connection down.
func (c *WSChannel) Close() error {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
	return nil
}

func (c *WSChannel) readLoop() {
	defer close(c.broadcasts)
	for {
		var env ws.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			return
		}
		ev, err := env.DecodeEvent()
		if err != nil {
			continue
		}
		// Non-blocking hand-off keeps a stalled consumer from backing
		// up the socket read loop.
		select {
		case c.broadcasts <- ev:
		default:
		}
	}
}
