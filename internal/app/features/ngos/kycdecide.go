// internal/app/features/ngos/kycdecide.go
package ngos

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	"github.com/sevahub/sevahub/internal/app/store/audit"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/mailer"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

// HandleVerify approves a submitted KYC request. The organization becomes
// verified, its public slug goes live, and its admins are told by email,
// notification, and a pushed event.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNGOID(w, r)
	if !ok {
		return
	}
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "verify ngo")
	defer cancel()

	ngo, err := h.NGOs.Verify(ctx, id, gate.UserID)
	if err != nil {
		switch err {
		case ngostore.ErrInvalidTransition:
			respond.Conflict(w, "organization has no pending document submission")
		case mongo.ErrNoDocuments:
			respond.NotFound(w, "organization")
		default:
			h.Log.Error("verify ngo", zap.Error(err))
			respond.ServerError(w)
		}
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventKYCVerified, gate.UserID, &id, "ngo", id, map[string]string{
		"slug": ngo.Slug,
	})
	h.notifyKYCDecision(ctx, ngo, true, "")

	respond.OK(w, map[string]any{"ngo": ngo})
}

type rejectKYCRequest struct {
	Reason string `json:"reason"`
}

// HandleReject declines a submitted KYC request with a reason the NGO's
// admins can act on before resubmitting.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNGOID(w, r)
	if !ok {
		return
	}
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}

	var in rejectKYCRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		respond.BadRequest(w, "a rejection reason is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "reject ngo kyc")
	defer cancel()

	if err := h.NGOs.RejectKYC(ctx, id, gate.UserID, in.Reason); err != nil {
		switch err {
		case ngostore.ErrInvalidTransition:
			respond.Conflict(w, "organization has no pending document submission")
		case mongo.ErrNoDocuments:
			respond.NotFound(w, "organization")
		default:
			h.Log.Error("reject ngo kyc", zap.Error(err))
			respond.ServerError(w)
		}
		return
	}

	ngo, err := h.NGOs.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("reject ngo kyc: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventKYCRejected, gate.UserID, &id, "ngo", id, map[string]string{
		"reason": in.Reason,
	})
	h.notifyKYCDecision(ctx, ngo, false, in.Reason)

	respond.OK(w, map[string]any{"ngo": ngo})
}

// notifyKYCDecision fans the decision out to the organization's admins:
// email, stored notification, and a pushed event. All best-effort; a
// delivery failure never fails the decision.
func (h *Handler) notifyKYCDecision(ctx context.Context, ngo models.NGO, verified bool, reason string) {
	admins, err := h.Users.AdminsOf(ctx, ngo.ID)
	if err != nil {
		h.Log.Warn("kyc decision: load admins", zap.Error(err))
		return
	}

	email := mailer.BuildKYCDecisionEmail(mailer.KYCDecisionData{
		SiteName: h.SiteName,
		NGOName:  ngo.Name,
		Verified: verified,
		Reason:   reason,
		Slug:     ngo.Slug,
	})

	title := "Your organization has been verified"
	body := "Your public page is now live. You can publish programs and receive donations."
	if !verified {
		title = "Your verification request was not approved"
		body = "Reason: " + reason
	}

	for _, admin := range admins {
		email.To = admin.Email
		if err := h.Mail.Send(email); err != nil {
			h.Log.Warn("kyc decision: send email", zap.Error(err), zap.String("to", admin.Email))
		}

		n, err := h.Notifications.Create(ctx, models.Notification{
			UserID:  admin.ID,
			Type:    models.NotifyKYCDecision,
			Title:   title,
			Message: body,
			Data:    map[string]string{"ngo_id": ngo.ID.Hex()},
		})
		if err != nil {
			h.Log.Warn("kyc decision: store notification", zap.Error(err))
			continue
		}
		h.Hub.PublishToUser(admin.ID.Hex(), events.Event{
			Kind:    events.KindKYCDecided,
			Payload: n,
		})
	}
}
