package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"triline/models"
)

const (
	writeTimeout = 5 * time.Second
	outboxSize   = 64
)

// Connection wraps a websocket connection as the opaque handle the
// coordinator knows participants by. Outbound frames go through a
// buffered outbox drained by a dedicated writer goroutine, so a stalled
// peer never blocks a sender.
type Connection struct {
	id        string
	conn      *websocket.Conn
	outbox    chan models.Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewConnection(conn *websocket.Conn) *Connection {
	c := &Connection{
		id:     uuid.New().String(),
		conn:   conn,
		outbox: make(chan models.Event, outboxSize),
		done:   make(chan struct{}),
	}
	go c.writePump()
	return c
}

func (c *Connection) ID() string {
	return c.id
}

// Send queues one frame and returns immediately. A full outbox means the
// peer stopped reading faster than we produce; the frame is dropped and
// the connection closed, which drives the read loop into the disconnect
// path.
func (c *Connection) Send(ev models.Event) {
	select {
	case c.outbox <- ev:
	case <-c.done:
	default:
		log.Printf("[WS] outbox full for %s, closing connection", c.id)
		c.Close()
	}
}

// Close shuts the writer down and closes the underlying socket. Safe to
// call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writePump is the only goroutine that writes to the socket, which keeps
// frames from interleaving without a lock on the send path.
func (c *Connection) writePump() {
	for {
		select {
		case <-c.done:
			return
		case ev := <-c.outbox:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(ev); err != nil {
				log.Printf("[WS] write to %s failed: %v", c.id, err)
				c.Close()
				return
			}
		}
	}
}
