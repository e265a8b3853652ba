package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Session buffer and write defaults.
const (
	defaultSendBuffer   = 32
	defaultWriteTimeout = 10 * time.Second
)

// wsSession owns one websocket connection's outbound side. All writes go
// through the write pump so the socket is never written concurrently.
type wsSession struct {
	conn         *websocket.Conn
	out          chan Envelope
	done         chan struct{}
	closeOnce    sync.Once
	writeTimeout time.Duration
}

func newSession(conn *websocket.Conn, sendBuffer int, writeTimeout time.Duration) *wsSession {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &wsSession{
		conn:         conn,
		out:          make(chan Envelope, sendBuffer),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
	}
}

// Send queues an envelope for delivery. Returns false when the buffer is
// full or the session is closed; the message is dropped in either case.
func (s *wsSession) Send(env Envelope) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- env:
		return true
	default:
		return false
	}
}

// writePump drains the outbound buffer onto the socket until the session
// closes. Runs on its own goroutine per connection.
func (s *wsSession) writePump() {
	for {
		select {
		case <-s.done:
			return
		case env := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.conn.WriteJSON(env); err != nil {
				s.close()
				return
			}
		}
	}
}

func (s *wsSession) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}
