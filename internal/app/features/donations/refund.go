// internal/app/features/donations/refund.go
package donations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	"github.com/sevahub/sevahub/internal/app/store/audit"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

// HandleRefund marks a completed donation as refunded. The money movement
// happens at the gateway; this records the outcome. Superadmin only.
func (h *Handler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "donationID"))
	if err != nil {
		respond.BadRequest(w, "invalid donation id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "refund donation")
	defer cancel()

	if err := h.Donations.Refund(ctx, id); err != nil {
		if err == donationstore.ErrInvalidTransition {
			respond.Conflict(w, "only completed donations can be refunded")
			return
		}
		h.Log.Error("refund donation", zap.Error(err))
		respond.ServerError(w)
		return
	}

	donation, err := h.Donations.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("refund donation: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventDonationRefunded, gate.UserID, &donation.NGOID, "donation", id, map[string]string{
		"receipt": donation.ReceiptNumber,
	})

	respond.OK(w, map[string]any{"donation": donation})
}
