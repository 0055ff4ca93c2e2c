// internal/app/features/grants/decide.go
package grants

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/store/audit"
	grantstore "github.com/sevahub/sevahub/internal/app/store/grants"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

func pathGrantID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "grantID"))
	if err != nil {
		respond.BadRequest(w, "invalid grant id")
		return primitive.NilObjectID, false
	}
	return id, true
}

type decideGrantRequest struct {
	Note string `json:"note"`
}

// HandleApprove approves a requested grant. Superadmin only.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

// HandleReject rejects a requested grant. Superadmin only; a note telling
// the organization why is required.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}
	id, ok := pathGrantID(w, r)
	if !ok {
		return
	}

	var req decideGrantRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	note := strings.TrimSpace(req.Note)
	if !approve && note == "" {
		respond.BadRequest(w, "a note explaining the rejection is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "grant decision")
	defer cancel()

	var err error
	if approve {
		err = h.Grants.Approve(ctx, id, gate.UserID, note)
	} else {
		err = h.Grants.Reject(ctx, id, gate.UserID, note)
	}
	if err != nil {
		if err == grantstore.ErrInvalidTransition {
			respond.Conflict(w, "this grant has no pending decision")
			return
		}
		h.Log.Error("grant decision", zap.Error(err))
		respond.ServerError(w)
		return
	}

	grant, err := h.Grants.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("grant decision: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}

	eventType := audit.EventGrantRejected
	if approve {
		eventType = audit.EventGrantApproved
	}
	h.Audit.AdminAction(ctx, r, eventType, gate.UserID, &grant.NGOID, "grant", grant.ID, nil)

	h.notifyDecision(ctx, grant)

	respond.OK(w, map[string]any{"grant": grant})
}

// HandleDisburse marks an approved grant as paid out. Superadmin only.
func (h *Handler) HandleDisburse(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}
	id, ok := pathGrantID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "disburse grant")
	defer cancel()

	if err := h.Grants.Disburse(ctx, id); err != nil {
		if err == grantstore.ErrInvalidTransition {
			respond.Conflict(w, "only approved grants can be disbursed")
			return
		}
		h.Log.Error("disburse grant", zap.Error(err))
		respond.ServerError(w)
		return
	}

	grant, err := h.Grants.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("disburse grant: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventGrantDisbursed, gate.UserID, &grant.NGOID, "grant", grant.ID, nil)

	h.notifyDecision(ctx, grant)

	respond.OK(w, map[string]any{"grant": grant})
}

// notifyDecision tells the organization's admins about a grant status
// change. Best-effort.
func (h *Handler) notifyDecision(ctx context.Context, grant models.Grant) {
	admins, err := h.Users.AdminsOf(ctx, grant.NGOID)
	if err != nil {
		h.Log.Warn("grant decision: load admins", zap.Error(err))
		return
	}

	message := fmt.Sprintf("Your grant request was %s.", grant.Status)
	if grant.DecisionNote != "" {
		message += " Note: " + grant.DecisionNote
	}

	adminIDs := make([]primitive.ObjectID, 0, len(admins))
	for _, admin := range admins {
		adminIDs = append(adminIDs, admin.ID)
	}
	err = h.Notifications.CreateMany(ctx, adminIDs, models.Notification{
		Type:    models.NotifyGrantDecision,
		Title:   "Grant " + grant.Status,
		Message: message,
		Data:    map[string]string{"grant_id": grant.ID.Hex(), "status": grant.Status},
	})
	if err != nil {
		h.Log.Warn("grant decision: store notifications", zap.Error(err))
	}

	h.Hub.PublishToNGO(grant.NGOID.Hex(), events.Event{
		Kind:    events.KindNotification,
		Payload: map[string]any{"grant_id": grant.ID.Hex(), "status": grant.Status},
	})
}
