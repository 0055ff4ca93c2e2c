// internal/app/system/events/client.go
package events

import "sync"

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Client is one connected dashboard session. A user with several open
// tabs has several clients.
type Client struct {
	ID     string
	UserID string
	Role   string
	NGOID  string

	mu   sync.Mutex
	conn Conn
}

// NewClient wraps a connection.
func NewClient(id, userID, role, ngoID string, conn Conn) *Client {
	return &Client{ID: id, UserID: userID, Role: role, NGOID: ngoID, conn: conn}
}

// Send writes one event to the client.
func (c *Client) Send(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(ev)
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
