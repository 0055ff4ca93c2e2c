package events_test

import (
	"sync"
	"testing"
	"time"

	"github.com/sevahub/sevahub/internal/app/system/events"
)

// mockConn is a test double for events.Conn.
type mockConn struct {
	mu       sync.Mutex
	messages []events.Event
	closed   bool
}

func newMockConn() *mockConn {
	return &mockConn{}
}

func (m *mockConn) WriteJSON(v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev, ok := v.(events.Event); ok {
		m.messages = append(m.messages, ev)
	}
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func (m *mockConn) Last() events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages[len(m.messages)-1]
}

// waitForCount polls until the conn has received n messages; sends are
// asynchronous.
func waitForCount(t *testing.T, conn *mockConn, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if conn.Count() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d messages, have %d", n, conn.Count())
}

func TestHub_RegisterUnregister(t *testing.T) {
	t.Parallel()

	hub := events.NewHub()
	client := events.NewClient("c1", "user1", "donor", "", newMockConn())

	hub.Register(client)
	if hub.TotalClients() != 1 {
		t.Errorf("expected 1 client, got %d", hub.TotalClients())
	}
	if hub.UserConnections("user1") != 1 {
		t.Errorf("expected 1 connection for user1, got %d", hub.UserConnections("user1"))
	}

	hub.Unregister(client)
	if hub.TotalClients() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.TotalClients())
	}
	if hub.UserConnections("user1") != 0 {
		t.Errorf("expected 0 connections for user1, got %d", hub.UserConnections("user1"))
	}
}

func TestHub_PublishToUser(t *testing.T) {
	t.Parallel()

	hub := events.NewHub()
	conn1 := newMockConn()
	conn2 := newMockConn()
	other := newMockConn()

	// user1 has two tabs open, user2 one.
	hub.Register(events.NewClient("c1", "user1", "donor", "", conn1))
	hub.Register(events.NewClient("c2", "user1", "donor", "", conn2))
	hub.Register(events.NewClient("c3", "user2", "donor", "", other))

	hub.PublishToUser("user1", events.Event{Kind: events.KindNotification})

	waitForCount(t, conn1, 1)
	waitForCount(t, conn2, 1)

	if other.Count() != 0 {
		t.Errorf("user2 should receive nothing, got %d", other.Count())
	}
	if conn1.Last().Kind != events.KindNotification {
		t.Errorf("kind = %q", conn1.Last().Kind)
	}
	if conn1.Last().Timestamp.IsZero() {
		t.Error("hub should stamp events with a timestamp")
	}
}

func TestHub_PublishToRole(t *testing.T) {
	t.Parallel()

	hub := events.NewHub()
	admin1 := newMockConn()
	admin2 := newMockConn()
	donor := newMockConn()

	hub.Register(events.NewClient("c1", "user1", "super_admin", "", admin1))
	hub.Register(events.NewClient("c2", "user2", "super_admin", "", admin2))
	hub.Register(events.NewClient("c3", "user3", "donor", "", donor))

	hub.PublishToRole("super_admin", events.Event{Kind: events.KindEmergencyCreated})

	waitForCount(t, admin1, 1)
	waitForCount(t, admin2, 1)

	if donor.Count() != 0 {
		t.Errorf("donor should receive nothing, got %d", donor.Count())
	}
}

func TestHub_PublishToNGO(t *testing.T) {
	t.Parallel()

	hub := events.NewHub()
	member := newMockConn()
	outsider := newMockConn()

	hub.Register(events.NewClient("c1", "user1", "ngo_admin", "ngo1", member))
	hub.Register(events.NewClient("c2", "user2", "ngo_admin", "ngo2", outsider))

	hub.PublishToNGO("ngo1", events.Event{Kind: events.KindDonationCompleted})

	waitForCount(t, member, 1)
	if outsider.Count() != 0 {
		t.Errorf("other NGO should receive nothing, got %d", outsider.Count())
	}
}

func TestHub_PublishToUnknownUserIsNoop(t *testing.T) {
	t.Parallel()

	hub := events.NewHub()
	// Must not panic or block with no registered clients.
	hub.PublishToUser("ghost", events.Event{Kind: events.KindNotification})
	hub.PublishToRole("super_admin", events.Event{Kind: events.KindNotification})
}
