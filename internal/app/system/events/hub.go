// internal/app/system/events/hub.go
package events

import (
	"sync"
	"time"
)

// Hub tracks connected clients and routes events to them by user, role,
// or NGO. Safe for concurrent use.
type Hub struct {
	mu sync.RWMutex

	// clients maps client ID to client
	clients map[string]*Client

	// byUser maps user ID to the set of that user's client IDs
	byUser map[string]map[string]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		byUser:  make(map[string]map[string]struct{}),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	if h.byUser[client.UserID] == nil {
		h.byUser[client.UserID] = make(map[string]struct{})
	}
	h.byUser[client.UserID][client.ID] = struct{}{}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ids, ok := h.byUser[client.UserID]; ok {
		delete(ids, client.ID)
		if len(ids) == 0 {
			delete(h.byUser, client.UserID)
		}
	}
	delete(h.clients, client.ID)
}

// PublishToUser sends an event to every connection of one user.
// Fire-and-forget: sends run in goroutines and write errors are ignored;
// a dead connection is cleaned up when its read loop exits.
func (h *Hub) PublishToUser(userID string, ev Event) {
	ev = stamped(ev)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for clientID := range h.byUser[userID] {
		if client, ok := h.clients[clientID]; ok {
			go func(c *Client) {
				_ = c.Send(ev)
			}(client)
		}
	}
}

// PublishToRole sends an event to every connected client with the role.
func (h *Hub) PublishToRole(role string, ev Event) {
	ev = stamped(ev)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.Role == role {
			go func(c *Client) {
				_ = c.Send(ev)
			}(client)
		}
	}
}

// PublishToNGO sends an event to every connected client belonging to the
// NGO (admins and managers).
func (h *Hub) PublishToNGO(ngoID string, ev Event) {
	ev = stamped(ev)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.NGOID == ngoID {
			go func(c *Client) {
				_ = c.Send(ev)
			}(client)
		}
	}
}

// UserConnections returns how many connections a user has open.
func (h *Hub) UserConnections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// TotalClients returns the total number of connected clients.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func stamped(ev Event) Event {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	return ev
}
