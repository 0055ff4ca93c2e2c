// internal/app/features/donations/initiate.go
package donations

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/htmlsanitize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

type initiateRequest struct {
	NGOID     string `json:"ngo_id"`
	ProgramID string `json:"program_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Message   string `json:"message"`
	Gateway   string `json:"gateway"`
}

// newGatewayOrderID produces the order reference handed to the payment
// gateway. The webhook identifies the donation by this value.
func newGatewayOrderID() string {
	return "order_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

// HandleInitiate starts a donation: the record is stored as initiated and
// the gateway order reference is returned for the client to complete
// payment against. The donation flips to completed only when the gateway's
// webhook arrives.
func (h *Handler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleDonations, authz.ActionCreate)
	if !gate.OK {
		return
	}

	var in initiateRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if in.Amount <= 0 {
		respond.BadRequest(w, "amount must be a positive number of minor currency units")
		return
	}
	ngoID, err := primitive.ObjectIDFromHex(in.NGOID)
	if err != nil {
		respond.BadRequest(w, "invalid organization id")
		return
	}
	gateway := in.Gateway
	switch gateway {
	case "":
		gateway = models.GatewayRazorpay
	case models.GatewayRazorpay, models.GatewayStripe:
	default:
		respond.BadRequest(w, "unsupported payment gateway")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "initiate donation")
	defer cancel()

	ngo, err := h.NGOs.GetByID(ctx, ngoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "organization")
			return
		}
		h.Log.Error("initiate donation: load ngo", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if ngo.KYCStatus != models.KYCStatusVerified {
		respond.BadRequest(w, "this organization cannot accept donations yet")
		return
	}

	var programID *primitive.ObjectID
	if in.ProgramID != "" {
		pid, err := primitive.ObjectIDFromHex(in.ProgramID)
		if err != nil {
			respond.BadRequest(w, "invalid program id")
			return
		}
		program, err := h.Programs.GetByID(ctx, pid)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respond.NotFound(w, "program")
				return
			}
			h.Log.Error("initiate donation: load program", zap.Error(err))
			respond.ServerError(w)
			return
		}
		if program.NGOID != ngoID {
			respond.BadRequest(w, "program does not belong to this organization")
			return
		}
		if program.Status != models.ProgramStatusActive {
			respond.BadRequest(w, "program is not accepting donations")
			return
		}
		programID = &pid
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "INR"
	}
	if len(currency) != 3 {
		respond.BadRequest(w, "currency must be a 3-letter code")
		return
	}

	donation, err := h.Donations.Create(ctx, models.Donation{
		DonorID:        gate.UserID,
		NGOID:          ngoID,
		ProgramID:      programID,
		Amount:         in.Amount,
		Currency:       currency,
		Message:        htmlsanitize.StripTags(in.Message),
		Gateway:        gateway,
		GatewayOrderID: newGatewayOrderID(),
	})
	if err != nil {
		h.Log.Error("initiate donation: create", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.Created(w, map[string]any{
		"donation":         donation,
		"gateway_order_id": donation.GatewayOrderID,
	})
}
