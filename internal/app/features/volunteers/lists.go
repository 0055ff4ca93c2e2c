// internal/app/features/volunteers/lists.go
package volunteers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/paging"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

// HandleListMine returns the caller's own registrations with their total
// logged hours.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list my registrations")
	defer cancel()

	regs, total, err := h.Volunteers.ListByUser(ctx, gate.UserID, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list my registrations", zap.Error(err))
		respond.ServerError(w)
		return
	}
	hours, err := h.Volunteers.TotalHoursForUser(ctx, gate.UserID)
	if err != nil {
		h.Log.Error("list my registrations: total hours", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.OK(w, map[string]any{
		"items":       regs,
		"pagination":  paging.NewMeta(p, total),
		"total_hours": hours,
	})
}

// HandleListNGO returns registrations for the caller's organization,
// optionally filtered by status.
func (h *Handler) HandleListNGO(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireNGOStaff(w, r)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}

	status := normalize.Status(r.URL.Query().Get("status"))
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list ngo registrations")
	defer cancel()

	regs, total, err := h.Volunteers.ListByNGO(ctx, ngoID, status, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list ngo registrations", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.OK(w, paging.List{Items: regs, Meta: paging.NewMeta(p, total)})
}
