package app

import (
	"time"

	"realtime_chat_service/internal/chat/domain"

	"github.com/google/uuid"
)

// outbound queue depth per connection; a full queue drops, never blocks
const sendBuffer = 64

// Client one registered connection: its identity plus the outbound event
// queue the transport layer drains. All fields are guarded by the hub lock.
type Client struct {
	conn   domain.Connection
	send   chan domain.Event
	closed bool
}

func newClient(userID, username string) *Client {
	return &Client{
		conn: domain.Connection{
			ID:       uuid.New().String(),
			UserID:   userID,
			Username: username,
			Status:   domain.StatusOnline,
			LastSeen: time.Now(),
		},
		send: make(chan domain.Event, sendBuffer),
	}
}

// ID the opaque connection id
func (c *Client) ID() string {
	return c.conn.ID
}

// Username the bound identity's username
func (c *Client) Username() string {
	return c.conn.Username
}

// Info snapshot of the connection record
func (c *Client) Info() domain.Connection {
	return c.conn
}

// Events the outbound queue, closed when the connection is unregistered
func (c *Client) Events() <-chan domain.Event {
	return c.send
}

// deliver queues evt without blocking; a slow consumer loses the event.
// Called with the hub lock held.
func (c *Client) deliver(evt domain.Event) bool {
	if c.closed {
		return false
	}
	select {
	case c.send <- evt:
		return true
	default:
		return false
	}
}

// close ends the outbound queue. Called with the hub lock held.
func (c *Client) close() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
