// internal/app/features/donations/lists.go
package donations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/paging"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

// HandleListMine returns the caller's own donation history with totals.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list my donations")
	defer cancel()

	donations, total, err := h.Donations.ListByDonor(ctx, gate.UserID, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list my donations", zap.Error(err))
		respond.ServerError(w)
		return
	}
	totals, err := h.Donations.TotalsForDonor(ctx, gate.UserID)
	if err != nil {
		h.Log.Error("list my donations: totals", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.OK(w, map[string]any{
		"items":      donations,
		"pagination": paging.NewMeta(p, total),
		"totals":     totals,
	})
}

// HandleListNGO returns donations received by the caller's organization,
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list ngo donations")
	defer cancel()

	donations, total, err := h.Donations.ListByNGO(ctx, ngoID, status, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list ngo donations", zap.Error(err))
		respond.ServerError(w)
		return
	}
	totals, err := h.Donations.TotalsForNGO(ctx, ngoID)
	if err != nil {
		h.Log.Error("list ngo donations: totals", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.OK(w, map[string]any{
		"items":      donations,
		"pagination": paging.NewMeta(p, total),
		"totals":     totals,
	})
}

// ServeByReceipt returns one donation by its receipt number. Visible to
// the donor, the receiving organization's staff, and superadmins.
func (h *Handler) ServeByReceipt(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}
	receipt := normalize.Serial(chi.URLParam(r, "receipt"))
	if receipt == "" {
		respond.BadRequest(w, "invalid receipt number")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get donation by receipt")
	defer cancel()

	donation, err := h.Donations.GetByReceipt(ctx, receipt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "donation")
			return
		}
		h.Log.Error("get donation by receipt", zap.Error(err))
		respond.ServerError(w)
		return
	}

	isDonor := donation.DonorID == gate.UserID
	isStaff := (gate.Role == authz.RoleNGOAdmin || gate.Role == authz.RoleNGOManager) &&
		authz.UserNGOID(r) == donation.NGOID
	if !isDonor && !isStaff && !authz.IsSuperAdmin(r) {
		respond.Forbidden(w)
		return
	}

	respond.OK(w, map[string]any{"donation": donation})
}
