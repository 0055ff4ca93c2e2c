// internal/app/features/volunteers/decide.go
package volunteers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/store/audit"
	volunteerstore "github.com/sevahub/sevahub/internal/app/store/volunteers"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

func pathRegistrationID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "registrationID"))
	if err != nil {
		respond.BadRequest(w, "invalid registration id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleApprove accepts a pending application. Organization staff only;
// the decision is scoped to the caller's own organization.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

// HandleReject declines a pending application.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	action := "reject"
	if approve {
		action = "approve"
	}
	gate := gates.RequirePermission(w, r, authz.ModuleVolunteers, action)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}
	id, ok := pathRegistrationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "volunteer decision")
	defer cancel()

	var err error
	if approve {
		err = h.Volunteers.Approve(ctx, id, ngoID, gate.UserID)
	} else {
		err = h.Volunteers.Reject(ctx, id, ngoID, gate.UserID)
	}
	if err != nil {
		if err == volunteerstore.ErrInvalidTransition {
			respond.Conflict(w, "this application has no pending decision")
			return
		}
		h.Log.Error("volunteer decision", zap.Error(err))
		respond.ServerError(w)
		return
	}

	reg, err := h.Volunteers.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("volunteer decision: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}

	eventType := audit.EventVolunteerRejected
	if approve {
		eventType = audit.EventVolunteerApproved
	}
	h.Audit.AdminAction(ctx, r, eventType, gate.UserID, &ngoID, "volunteer_registration", reg.ID, nil)

	h.notifyDecision(ctx, reg, approve)

	respond.OK(w, map[string]any{"registration": reg})
}

// notifyDecision tells the volunteer how their application was decided.
// Best-effort fan-out: a notification failure never fails the decision.
func (h *Handler) notifyDecision(ctx context.Context, reg models.VolunteerRegistration, approved bool) {
	programTitle := ""
	if program, err := h.Programs.GetByID(ctx, reg.ProgramID); err == nil {
		programTitle = program.Title
	} else if err != mongo.ErrNoDocuments {
		h.Log.Warn("volunteer decision: load program", zap.Error(err))
	}

	verdict := "rejected"
	if approved {
		verdict = "approved"
	}
	n, err := h.Notifications.Create(ctx, models.Notification{
		UserID:  reg.UserID,
		Type:    models.NotifyVolunteerDecision,
		Title:   "Volunteer application " + verdict,
		Message: fmt.Sprintf("Your volunteer application for %q was %s.", programTitle, verdict),
		Data:    map[string]string{"registration_id": reg.ID.Hex(), "status": reg.Status},
	})
	if err != nil {
		h.Log.Warn("volunteer decision: store notification", zap.Error(err))
		return
	}

	h.Hub.PublishToUser(reg.UserID.Hex(), events.Event{
		Kind:    events.KindNotification,
		Payload: n,
	})
}
