// internal/app/features/dashboard/personal.go
package dashboard

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

// serveVolunteer returns a volunteer's own activity: their registrations
// and the hours they have logged across approved ones.
func (h *Handler) serveVolunteer(w http.ResponseWriter, r *http.Request, gate gates.Result) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "volunteer dashboard")
	defer cancel()

	_, registrations, err := h.Volunteers.ListByUser(ctx, gate.UserID, 0, 1)
	if err != nil {
		h.Log.Warn("volunteer dashboard: registrations", zap.Error(err))
	}
	hours, err := h.Volunteers.TotalHoursForUser(ctx, gate.UserID)
	if err != nil {
		h.Log.Warn("volunteer dashboard: hours", zap.Error(err))
	}
	unread, _ := h.Notifications.UnreadCount(ctx, gate.UserID)

	respondSummary(w, gate.Role, map[string]any{
		"registrations":        registrations,
		"total_hours":          hours,
		"unread_notifications": unread,
	})
}

// serveDonor returns a donor's giving totals.
func (h *Handler) serveDonor(w http.ResponseWriter, r *http.Request, gate gates.Result) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "donor dashboard")
	defer cancel()

	totals, err := h.Donations.TotalsForDonor(ctx, gate.UserID)
	if err != nil {
		h.Log.Warn("donor dashboard: totals", zap.Error(err))
	}
	unread, _ := h.Notifications.UnreadCount(ctx, gate.UserID)

	respondSummary(w, gate.Role, map[string]any{
		"donations":            totals,
		"unread_notifications": unread,
	})
}

// serveCitizen returns a citizen's emergency-request history count.
func (h *Handler) serveCitizen(w http.ResponseWriter, r *http.Request, gate gates.Result) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "citizen dashboard")
	defer cancel()

	_, requests, err := h.Emergencies.ListByRequester(ctx, gate.UserID, 0, 1)
	if err != nil {
		h.Log.Warn("citizen dashboard: requests", zap.Error(err))
	}
	unread, _ := h.Notifications.UnreadCount(ctx, gate.UserID)

	respondSummary(w, gate.Role, map[string]any{
		"emergency_requests":   requests,
		"unread_notifications": unread,
	})
}
