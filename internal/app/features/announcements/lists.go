// internal/app/features/announcements/lists.go
package announcements

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/paging"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

// ServePublic returns the published feed. No authentication; an ngo_id
// query narrows to one organization's notices plus platform-wide ones.
func (h *Handler) ServePublic(w http.ResponseWriter, r *http.Request) {
	var ngoID *primitive.ObjectID
	if raw := r.URL.Query().Get("ngo_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.BadRequest(w, "invalid ngo_id")
			return
		}
		ngoID = &id
	}
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list public announcements")
	defer cancel()

	items, total, err := h.Announcements.ListPublic(ctx, ngoID, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list public announcements", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: items, Meta: paging.NewMeta(p, total)})
}

// HandleListMine returns every announcement of the caller's organization,
// drafts and rejections included.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireNGOStaff(w, r)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list ngo announcements")
	defer cancel()

	items, total, err := h.Announcements.ListByNGO(ctx, ngoID, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list ngo announcements", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: items, Meta: paging.NewMeta(p, total)})
}
