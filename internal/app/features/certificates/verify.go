// internal/app/features/certificates/verify.go
package certificates

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/paging"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

// ServeVerify is the public serial lookup: anyone holding a certificate
// serial can confirm it is genuine without signing in. The response names
// the issuing organization but not the recipient's contact details.
func (h *Handler) ServeVerify(w http.ResponseWriter, r *http.Request) {
	serial := normalize.Serial(chi.URLParam(r, "serial"))
	if serial == "" {
		respond.BadRequest(w, "invalid serial")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "verify certificate")
	defer cancel()

	cert, err := h.Certificates.GetBySerial(ctx, serial)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "certificate")
			return
		}
		h.Log.Error("verify certificate", zap.Error(err))
		respond.ServerError(w)
		return
	}

	issuer := ""
	if ngo, err := h.NGOs.GetByID(ctx, cert.NGOID); err == nil {
		issuer = ngo.Name
	}
	recipient := ""
	if user, err := h.Users.GetByID(ctx, cert.UserID); err == nil {
		recipient = user.FullName
	}

	respond.OK(w, map[string]any{
		"serial":    cert.Serial,
		"type":      cert.Type,
		"title":     cert.Title,
		"issued_at": cert.IssuedAt,
		"issuer":    issuer,
		"recipient": recipient,
	})
}

// HandleListMine returns the caller's own certificates.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list my certificates")
	defer cancel()

	certs, total, err := h.Certificates.ListByUser(ctx, gate.UserID, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list my certificates", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: certs, Meta: paging.NewMeta(p, total)})
}

// HandleListNGO returns the certificates the caller's organization issued.
func (h *Handler) HandleListNGO(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireNGOStaff(w, r)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list ngo certificates")
	defer cancel()

	certs, total, err := h.Certificates.ListByNGO(ctx, ngoID, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list ngo certificates", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: certs, Meta: paging.NewMeta(p, total)})
}
