// internal/app/features/emergency/lists.go
package emergency

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

// HandleList returns requests platform-wide for triage. Superadmin only.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}

	status := normalize.Status(r.URL.Query().Get("status"))
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list emergency requests")
	defer cancel()

	reqs, total, err := h.Emergencies.List(ctx, status, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list emergency requests", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: reqs, Meta: paging.NewMeta(p, total)})
}

// HandleListAssigned returns requests assigned to the caller's
// organization.
func (h *Handler) HandleListAssigned(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list assigned emergency requests")
	defer cancel()

	reqs, total, err := h.Emergencies.ListByNGO(ctx, ngoID, status, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list assigned emergency requests", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: reqs, Meta: paging.NewMeta(p, total)})
}

// HandleListMine returns the caller's own requests.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list my emergency requests")
	defer cancel()

	reqs, total, err := h.Emergencies.ListByRequester(ctx, gate.UserID, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list my emergency requests", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: reqs, Meta: paging.NewMeta(p, total)})
}
