// internal/app/features/grants/lists.go
package grants

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

// HandleListMine returns the caller organization's grant requests.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleGrants, authz.ActionRead)
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list ngo grants")
	defer cancel()

	grants, total, err := h.Grants.ListByNGO(ctx, ngoID, status, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list ngo grants", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: grants, Meta: paging.NewMeta(p, total)})
}

// HandleListAll returns every grant request on the platform, optionally
// filtered by status. Superadmin only.
func (h *Handler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}

	status := normalize.Status(r.URL.Query().Get("status"))
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list all grants")
	defer cancel()

	grants, total, err := h.Grants.ListAll(ctx, status, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list all grants", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: grants, Meta: paging.NewMeta(p, total)})
}
