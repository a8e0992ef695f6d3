package ws

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

// outFrame is the outbound wire envelope.
type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Conn wraps one websocket with a buffered outbound queue. Deliver
// never blocks the router; a full queue drops the frame.
type Conn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{conn: ws, send: make(chan []byte, 32)}
}

// Deliver implements app.Peer.
func (c *Conn) Deliver(event string, data any) {
	b, err := json.Marshal(outFrame{Event: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Str("event", event).Msg("marshal frame")
		return
	}
	if err := c.trySend(b); err != nil {
		log.Warn().Err(err).Str("module", "ws").Str("event", event).Msg("frame dropped")
	}
}

func (c *Conn) trySend(b []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}
