// internal/app/features/certificates/issue.go
package certificates

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/store/audit"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/htmlsanitize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

type issueRequest struct {
	UserID  string `json:"user_id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Remarks string `json:"remarks"`
}

// HandleIssue issues a certificate from the caller's organization to a
// recipient user.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleCertificates, authz.ActionCreate)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}

	var req issueRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	recipientID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		respond.BadRequest(w, "invalid user_id")
		return
	}
	switch req.Type {
	case models.CertificateVolunteering, models.CertificateDonation, models.CertificateAppreciation:
	default:
		respond.BadRequest(w, "type must be volunteering, donation, or appreciation")
		return
	}
	title := strings.TrimSpace(htmlsanitize.StripTags(req.Title))
	if title == "" {
		respond.BadRequest(w, "title is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "issue certificate")
	defer cancel()

	if _, err := h.Users.GetByID(ctx, recipientID); err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "recipient")
			return
		}
		h.Log.Error("issue certificate: load recipient", zap.Error(err))
		respond.ServerError(w)
		return
	}

	cert, err := h.Certificates.Issue(ctx, models.Certificate{
		NGOID:    ngoID,
		UserID:   recipientID,
		Type:     req.Type,
		Title:    title,
		Remarks:  htmlsanitize.StripTags(req.Remarks),
		IssuedBy: gate.UserID,
	})
	if err != nil {
		h.Log.Error("issue certificate", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventCertificateIssued, gate.UserID, &ngoID, "certificate", cert.ID, map[string]string{
		"serial": cert.Serial,
		"type":   cert.Type,
	})

	respond.Created(w, map[string]any{"certificate": cert})
}
