// internal/app/features/ws/handler.go

// Package ws upgrades authenticated dashboard connections to WebSocket and
// parks them on the event hub until the peer goes away.
package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/gates"
)

const (
	// Clients only receive; anything beyond a pong-sized frame is abuse.
	maxInboundFrame = 512

	pongWait     = 60 * time.Second
	pingInterval = 45 * time.Second
	writeWait    = 10 * time.Second
)

type Handler struct {
	Hub *events.Hub
	Log *zap.Logger

	upgrader websocket.Upgrader
}

func NewHandler(hub *events.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		Hub: hub,
		Log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The bearer token is the credential; the Origin header adds
			// nothing for non-browser clients and breaks mobile ones.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleConnect upgrades the request and registers the connection with the
// hub. The connection lives until the client closes it or the read loop
// sees an error.
func (h *Handler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}
	user, ok := auth.CurrentUser(r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.Log.Debug("ws upgrade", zap.Error(err))
		return
	}

	client := events.NewClient(uuid.NewString(), user.ID, user.Role, user.NGOID, conn)
	h.Hub.Register(client)
	h.Log.Info("ws connected",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role),
		zap.Int("connections", h.Hub.UserConnections(user.ID)))

	done := make(chan struct{})
	go h.pingLoop(conn, done)
	go h.readLoop(client, conn, done)
}

// pingLoop keeps the connection alive; browsers cannot initiate pings
// themselves. WriteControl is safe alongside the hub's WriteJSON writes.
func (h *Handler) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readLoop drains control frames and inbound noise until the connection
// dies, then unregisters the client.
func (h *Handler) readLoop(client *events.Client, conn *websocket.Conn, done chan<- struct{}) {
	defer func() {
		close(done)
		h.Hub.Unregister(client)
		_ = conn.Close()
		h.Log.Info("ws disconnected", zap.String("user_id", client.UserID))
	}()

	conn.SetReadLimit(maxInboundFrame)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}
