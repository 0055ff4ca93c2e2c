// internal/app/features/notifications/feed.go
package notifications

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/paging"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

// HandleList returns the caller's notifications, newest first. The
// unread_only query narrows to unread ones.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}
	unreadOnly := r.URL.Query().Get("unread_only") == "true"
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list notifications")
	defer cancel()

	items, total, err := h.Notifications.ListByUser(ctx, gate.UserID, unreadOnly, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list notifications", zap.Error(err))
		respond.ServerError(w)
		return
	}
	unread, err := h.Notifications.UnreadCount(ctx, gate.UserID)
	if err != nil {
		h.Log.Error("list notifications: unread count", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.OK(w, map[string]any{
		"items":      items,
		"pagination": paging.NewMeta(p, total),
		"unread":     unread,
	})
}

// HandleMarkRead flags one of the caller's notifications as read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "notificationID"))
	if err != nil {
		respond.BadRequest(w, "invalid notification id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mark notification read")
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id, gate.UserID); err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "notification")
			return
		}
		h.Log.Error("mark notification read", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Message(w, "notification marked read")
}

// HandleMarkAllRead flags every unread notification of the caller as read.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mark all notifications read")
	defer cancel()

	updated, err := h.Notifications.MarkAllRead(ctx, gate.UserID)
	if err != nil {
		h.Log.Error("mark all notifications read", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, map[string]any{"updated": updated})
}

// HandleUnreadCount backs the notification badge.
func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "unread notification count")
	defer cancel()

	unread, err := h.Notifications.UnreadCount(ctx, gate.UserID)
	if err != nil {
		h.Log.Error("unread notification count", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, map[string]any{"unread": unread})
}
