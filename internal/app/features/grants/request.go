// internal/app/features/grants/request.go
package grants

import (
	"net/http"

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

type requestGrantRequest struct {
	Purpose string `json:"purpose"`
	Amount  int64  `json:"amount"`
}

// HandleRequest files a funding request on behalf of the caller's
// organization. Only verified organizations may ask for grants.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleGrants, authz.ActionCreate)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}

	var req requestGrantRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	purpose := htmlsanitize.StripTags(req.Purpose)
	if purpose == "" {
		respond.BadRequest(w, "purpose is required")
		return
	}
	if req.Amount <= 0 {
		respond.BadRequest(w, "amount must be a positive number of minor currency units")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "request grant")
	defer cancel()

	ngo, err := h.NGOs.GetByID(ctx, ngoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "organization")
			return
		}
		h.Log.Error("request grant: load ngo", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if ngo.KYCStatus != models.KYCStatusVerified {
		respond.BadRequest(w, "your organization must be verified before requesting grants")
		return
	}

	grant, err := h.Grants.Request(ctx, models.Grant{
		NGOID:       ngoID,
		Purpose:     purpose,
		Amount:      req.Amount,
		RequestedBy: gate.UserID,
	})
	if err != nil {
		h.Log.Error("request grant", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventGrantRequested, gate.UserID, &ngoID, "grant", grant.ID, map[string]string{
		"purpose": purpose,
	})

	respond.Created(w, map[string]any{"grant": grant})
}
