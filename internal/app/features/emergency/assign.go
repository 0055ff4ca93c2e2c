// internal/app/features/emergency/assign.go
package emergency

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/store/audit"
	emergencystore "github.com/sevahub/sevahub/internal/app/store/emergencies"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/htmlsanitize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

func pathRequestID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "requestID"))
	if err != nil {
		respond.BadRequest(w, "invalid request id")
		return primitive.NilObjectID, false
	}
	return id, true
}

type assignRequest struct {
	NGOID string `json:"ngo_id"`
}

// HandleAssign routes a pending request to a verified organization.
// Superadmin only; assignment implies the request passed verification.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}
	id, ok := pathRequestID(w, r)
	if !ok {
		return
	}

	var req assignRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	ngoID, err := primitive.ObjectIDFromHex(req.NGOID)
	if err != nil {
		respond.BadRequest(w, "invalid ngo_id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "assign emergency request")
	defer cancel()

	ngo, err := h.NGOs.GetByID(ctx, ngoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "organization")
			return
		}
		h.Log.Error("assign emergency request: load ngo", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if ngo.KYCStatus != models.KYCStatusVerified {
		respond.BadRequest(w, "requests can only be assigned to verified organizations")
		return
	}

	if err := h.Emergencies.Assign(ctx, id, ngoID, gate.UserID); err != nil {
		if err == emergencystore.ErrInvalidTransition {
			respond.Conflict(w, "only pending requests can be assigned")
			return
		}
		h.Log.Error("assign emergency request", zap.Error(err))
		respond.ServerError(w)
		return
	}

	er, err := h.Emergencies.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("assign emergency request: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventEmergencyAssigned, gate.UserID, &ngoID, "emergency_request", er.ID, map[string]string{
		"category": er.Category,
	})

	h.notifyAssignment(ctx, er, ngo.Name)

	respond.OK(w, map[string]any{"request": er})
}

// notifyAssignment fans the assignment out to the organization's admins
// and tells the requester help is on the way. Best-effort.
func (h *Handler) notifyAssignment(ctx context.Context, er models.EmergencyRequest, ngoName string) {
	if er.AssignedToNGO == nil {
		return
	}

	admins, err := h.Users.AdminsOf(ctx, *er.AssignedToNGO)
	if err != nil {
		h.Log.Warn("assign emergency request: load admins", zap.Error(err))
	} else {
		adminIDs := make([]primitive.ObjectID, 0, len(admins))
		for _, admin := range admins {
			adminIDs = append(adminIDs, admin.ID)
		}
		err = h.Notifications.CreateMany(ctx, adminIDs, models.Notification{
			Type:    models.NotifyEmergencyAssigned,
			Title:   "Emergency request assigned",
			Message: "An emergency request (" + er.Category + ") was assigned to your organization.",
			Data:    map[string]string{"request_id": er.ID.Hex()},
		})
		if err != nil {
			h.Log.Warn("assign emergency request: store notifications", zap.Error(err))
		}
	}

	h.Hub.PublishToNGO(er.AssignedToNGO.Hex(), events.Event{
		Kind:    events.KindEmergencyAssigned,
		Payload: map[string]any{"request_id": er.ID.Hex(), "category": er.Category},
	})

	if _, err := h.Notifications.Create(ctx, models.Notification{
		UserID:  er.RequesterID,
		Type:    models.NotifyEmergencyAssigned,
		Title:   "Help is on the way",
		Message: ngoName + " has been assigned to your request.",
		Data:    map[string]string{"request_id": er.ID.Hex()},
	}); err != nil {
		h.Log.Warn("assign emergency request: notify requester", zap.Error(err))
	}
	h.Hub.PublishToUser(er.RequesterID.Hex(), events.Event{
		Kind:    events.KindEmergencyAssigned,
		Payload: map[string]any{"request_id": er.ID.Hex(), "ngo": ngoName},
	})
}

type resolveRequest struct {
	Summary    string `json:"summary"`
	ActionNote string `json:"action_note"`
}

// HandleResolve closes an in-progress request. Only staff of the assigned
// organization may resolve it.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleEmergency, "resolve")
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}
	id, ok := pathRequestID(w, r)
	if !ok {
		return
	}

	var req resolveRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	summary := strings.TrimSpace(htmlsanitize.StripTags(req.Summary))
	if summary == "" {
		respond.BadRequest(w, "a resolution summary is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "resolve emergency request")
	defer cancel()

	resolution := models.EmergencyResolution{
		Summary:    summary,
		ActionNote: htmlsanitize.StripTags(req.ActionNote),
	}
	if err := h.Emergencies.Resolve(ctx, id, ngoID, resolution); err != nil {
		if err == emergencystore.ErrInvalidTransition {
			respond.Conflict(w, "only a request assigned to your organization and in progress can be resolved")
			return
		}
		h.Log.Error("resolve emergency request", zap.Error(err))
		respond.ServerError(w)
		return
	}

	er, err := h.Emergencies.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("resolve emergency request: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventEmergencyResolved, gate.UserID, &ngoID, "emergency_request", er.ID, nil)

	if _, err := h.Notifications.Create(ctx, models.Notification{
		UserID:  er.RequesterID,
		Type:    models.NotifyEmergencyResolved,
		Title:   "Your request was resolved",
		Message: summary,
		Data:    map[string]string{"request_id": er.ID.Hex()},
	}); err != nil {
		h.Log.Warn("resolve emergency request: notify requester", zap.Error(err))
	}
	h.Hub.PublishToUser(er.RequesterID.Hex(), events.Event{
		Kind:    events.KindEmergencyResolved,
		Payload: map[string]any{"request_id": er.ID.Hex()},
	})

	respond.OK(w, map[string]any{"request": er})
}

// HandleRejectVerification declines a pending request before routing.
// Superadmin only; the lifecycle terminates in rejected.
func (h *Handler) HandleRejectVerification(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}
	id, ok := pathRequestID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "reject emergency request")
	defer cancel()

	if err := h.Emergencies.RejectVerification(ctx, id); err != nil {
		if err == emergencystore.ErrInvalidTransition {
			respond.Conflict(w, "only pending requests can be rejected")
			return
		}
		h.Log.Error("reject emergency request", zap.Error(err))
		respond.ServerError(w)
		return
	}

	er, err := h.Emergencies.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("reject emergency request: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventEmergencyRejected, gate.UserID, nil, "emergency_request", er.ID, nil)

	respond.OK(w, map[string]any{"request": er})
}
