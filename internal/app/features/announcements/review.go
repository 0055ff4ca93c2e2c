// internal/app/features/announcements/review.go
package announcements

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/store/audit"
	announcementstore "github.com/sevahub/sevahub/internal/app/store/announcements"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/paging"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

// HandleApprove publishes a pending announcement. Superadmin only.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}
	id, ok := pathAnnouncementID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "approve announcement")
	defer cancel()

	if err := h.Announcements.Approve(ctx, id, gate.UserID); err != nil {
		if err == announcementstore.ErrInvalidTransition {
			respond.Conflict(w, "this announcement is not awaiting review")
			return
		}
		h.Log.Error("approve announcement", zap.Error(err))
		respond.ServerError(w)
		return
	}

	a, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("approve announcement: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventAnnouncementApproved, gate.UserID, a.NGOID, "announcement", a.ID, nil)

	payload := map[string]any{"announcement_id": a.ID.Hex(), "title": a.Title}
	if a.NGOID != nil {
		h.Hub.PublishToNGO(a.NGOID.Hex(), events.Event{Kind: events.KindAnnouncementPosted, Payload: payload})
	} else {
		for role := range authz.Hierarchy {
			h.Hub.PublishToRole(role, events.Event{Kind: events.KindAnnouncementPosted, Payload: payload})
		}
	}

	respond.OK(w, map[string]any{"announcement": a})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// HandleReject declines a pending announcement with a reason the author
// sees. Superadmin only.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}
	id, ok := pathAnnouncementID(w, r)
	if !ok {
		return
	}

	var req rejectRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		respond.BadRequest(w, "a reason is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "reject announcement")
	defer cancel()

	if err := h.Announcements.Reject(ctx, id, gate.UserID, reason); err != nil {
		if err == announcementstore.ErrInvalidTransition {
			respond.Conflict(w, "this announcement is not awaiting review")
			return
		}
		h.Log.Error("reject announcement", zap.Error(err))
		respond.ServerError(w)
		return
	}

	a, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("reject announcement: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventAnnouncementRejected, gate.UserID, a.NGOID, "announcement", a.ID, map[string]string{
		"reason": reason,
	})

	respond.OK(w, map[string]any{"announcement": a})
}

// HandleListPending returns the review queue. Superadmin only.
func (h *Handler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list pending announcements")
	defer cancel()

	items, total, err := h.Announcements.ListPending(ctx, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list pending announcements", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: items, Meta: paging.NewMeta(p, total)})
}
