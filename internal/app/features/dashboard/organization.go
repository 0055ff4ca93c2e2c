// internal/app/features/dashboard/organization.go
package dashboard

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

// serveOrganization returns the numbers NGO staff act on day to day:
// program counts, money raised, and the volunteer application queue.
func (h *Handler) serveOrganization(w http.ResponseWriter, r *http.Request, gate gates.Result) {
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "organization dashboard")
	defer cancel()

	count := func(what string, f func() (int64, error)) int64 {
		n, err := f()
		if err != nil {
			h.Log.Warn("organization dashboard", zap.String("stat", what), zap.Error(err))
		}
		return n
	}

	totals, err := h.Donations.TotalsForNGO(ctx, ngoID)
	if err != nil {
		h.Log.Error("organization dashboard: donation totals", zap.Error(err))
		respond.ServerError(w)
		return
	}

	programs := map[string]int64{
		"total":  count("programs.total", func() (int64, error) { return h.Programs.CountByNGO(ctx, ngoID, "") }),
		"active": count("programs.active", func() (int64, error) { return h.Programs.CountByNGO(ctx, ngoID, models.ProgramStatusActive) }),
	}
	volunteers := map[string]int64{
		"applied":  count("volunteers.applied", func() (int64, error) { return h.Volunteers.CountByNGO(ctx, ngoID, models.VolunteerStatusApplied) }),
		"approved": count("volunteers.approved", func() (int64, error) { return h.Volunteers.CountByNGO(ctx, ngoID, models.VolunteerStatusApproved) }),
	}
	unread := count("notifications.unread", func() (int64, error) { return h.Notifications.UnreadCount(ctx, gate.UserID) })

	respondSummary(w, gate.Role, map[string]any{
		"programs":             programs,
		"donations":            totals,
		"volunteers":           volunteers,
		"unread_notifications": unread,
	})
}
