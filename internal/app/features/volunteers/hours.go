// internal/app/features/volunteers/hours.go
package volunteers

import (
	"net/http"

	"go.uber.org/zap"

	volunteerstore "github.com/sevahub/sevahub/internal/app/store/volunteers"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

type logHoursRequest struct {
	Hours float64 `json:"hours"`
}

// maxHoursPerEntry caps one log entry at a week of full-time work, which
// catches fat-fingered values without getting in the way of real usage.
const maxHoursPerEntry = 40

// HandleLogHours records service hours on the caller's own approved
// registration.
func (h *Handler) HandleLogHours(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleVolunteers, "log_hours")
	if !gate.OK {
		return
	}
	id, ok := pathRegistrationID(w, r)
	if !ok {
		return
	}

	var req logHoursRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	if req.Hours <= 0 || req.Hours > maxHoursPerEntry {
		respond.BadRequest(w, "hours must be between 0 and 40")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "log volunteer hours")
	defer cancel()

	reg, err := h.Volunteers.GetByID(ctx, id)
	if err != nil {
		respond.NotFound(w, "registration")
		return
	}
	if reg.UserID != gate.UserID {
		respond.Forbidden(w)
		return
	}

	if err := h.Volunteers.LogHours(ctx, id, reg.NGOID, req.Hours); err != nil {
		if err == volunteerstore.ErrInvalidTransition {
			respond.Conflict(w, "hours can only be logged on an approved registration")
			return
		}
		h.Log.Error("log volunteer hours", zap.Error(err))
		respond.ServerError(w)
		return
	}

	updated, err := h.Volunteers.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("log volunteer hours: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, map[string]any{"registration": updated})
}

// HandleWithdraw pulls the caller's own registration while it is still
// applied or approved.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}
	id, ok := pathRegistrationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "withdraw volunteer registration")
	defer cancel()

	if err := h.Volunteers.Withdraw(ctx, id, gate.UserID); err != nil {
		if err == volunteerstore.ErrInvalidTransition {
			respond.Conflict(w, "this registration cannot be withdrawn")
			return
		}
		h.Log.Error("withdraw volunteer registration", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Message(w, "registration withdrawn")
}
