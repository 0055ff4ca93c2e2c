// internal/app/features/programs/list.go
package programs

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

// HandleListMine returns the caller's organization's programs, optionally
// filtered by status.
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

	status := normalize.Status(r.URL.Query().Get("status"))
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list ngo programs")
	defer cancel()

	programs, total, err := h.Programs.ListByNGO(ctx, ngoID, status, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list ngo programs", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: programs, Meta: paging.NewMeta(p, total)})
}

// ServeActive returns the public catalog of active programs across all
// verified organizations, optionally filtered by category. No auth.
func (h *Handler) ServeActive(w http.ResponseWriter, r *http.Request) {
	category := normalize.Status(r.URL.Query().Get("category"))
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list active programs")
	defer cancel()

	programs, total, err := h.Programs.ListActive(ctx, category, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list active programs", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: programs, Meta: paging.NewMeta(p, total)})
}
