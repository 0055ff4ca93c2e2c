// internal/app/features/dashboard/platform.go
package dashboard

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

// servePlatform returns the cross-tenant numbers a platform administrator
// watches: the KYC queue, money moved, grant and emergency pipelines, and
// the user base broken down by role.
func (h *Handler) servePlatform(w http.ResponseWriter, r *http.Request, gate gates.Result) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "platform dashboard")
	defer cancel()

	count := func(what string, f func() (int64, error)) int64 {
		n, err := f()
		if err != nil {
			h.Log.Warn("platform dashboard", zap.String("stat", what), zap.Error(err))
		}
		return n
	}

	ngos := map[string]int64{}
	for _, status := range []string{
		models.KYCStatusPending,
		models.KYCStatusDocumentsSubmitted,
		models.KYCStatusVerified,
		models.KYCStatusRejected,
	} {
		st := status
		ngos[st] = count("ngos."+st, func() (int64, error) { return h.NGOs.CountByKYCStatus(ctx, st) })
	}

	totals, err := h.Donations.TotalsOverall(ctx)
	if err != nil {
		h.Log.Error("platform dashboard: donation totals", zap.Error(err))
		respond.ServerError(w)
		return
	}

	grants := map[string]int64{}
	for _, status := range []string{
		models.GrantStatusRequested,
		models.GrantStatusApproved,
		models.GrantStatusDisbursed,
		models.GrantStatusRejected,
	} {
		st := status
		grants[st] = count("grants."+st, func() (int64, error) { return h.Grants.CountByStatus(ctx, st) })
	}

	emergencies := map[string]int64{}
	for _, status := range []string{
		models.EmergencyStatusPending,
		models.EmergencyStatusInProgress,
		models.EmergencyStatusResolved,
	} {
		st := status
		emergencies[st] = count("emergencies."+st, func() (int64, error) { return h.Emergencies.CountByStatus(ctx, st) })
	}

	users := map[string]int64{}
	for _, role := range []string{"ngo_admin", "ngo_manager", "volunteer", "donor", "citizen"} {
		ro := role
		users[ro] = count("users."+ro, func() (int64, error) { return h.Users.CountByRole(ctx, ro) })
	}

	respondSummary(w, gate.Role, map[string]any{
		"ngos":        ngos,
		"donations":   totals,
		"grants":      grants,
		"emergencies": emergencies,
		"users":       users,
	})
}
