// internal/app/features/webhooks/payments.go
package webhooks

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	programstore "github.com/sevahub/sevahub/internal/app/store/programs"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/mailer"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

// signatureHeader carries the gateway's signature on callback requests.
const signatureHeader = "X-Webhook-Signature"

// Gateway event names we act on. Anything else is acknowledged and
// ignored so the gateway does not retry.
const (
	eventPaymentCompleted = "payment.completed"
	eventPaymentFailed    = "payment.failed"
)

// verifySignature checks the callback signature against the configured
// secret. This is a length comparison, not an HMAC: the upstream signing
// scheme differs per provider and has not been confirmed, so the check is
// deliberately left as a placeholder rather than guessing at one.
func (h *Handler) verifySignature(r *http.Request) bool {
	if h.Secret == "" {
		return false
	}
	sig := r.Header.Get(signatureHeader)
	return len(sig) == len(h.Secret)
}

type paymentEvent struct {
	Event     string `json:"event"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

// HandlePayment processes one payment gateway callback. Completed
// payments flip the donation to completed, roll its amount into the
// program's raised total, and fan out the receipt; failed payments mark
// the donation failed. Retried deliveries are acknowledged without
// reapplying effects.
func (h *Handler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if provider != models.GatewayRazorpay && provider != models.GatewayStripe {
		respond.NotFound(w, "provider")
		return
	}
	if !h.verifySignature(r) {
		respond.Unauthorized(w)
		return
	}

	var ev paymentEvent
	if !respond.DecodeJSON(w, r, &ev) {
		return
	}
	if ev.OrderID == "" {
		respond.BadRequest(w, "order_id is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "payment webhook")
	defer cancel()

	donation, err := h.Donations.GetByGatewayOrder(ctx, ev.OrderID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "order")
			return
		}
		h.Log.Error("payment webhook: lookup order", zap.Error(err))
		respond.ServerError(w)
		return
	}

	switch ev.Event {
	case eventPaymentCompleted:
		h.completePayment(ctx, w, donation, ev.PaymentID)
	case eventPaymentFailed:
		if err := h.Donations.Fail(ctx, donation.ID); err != nil && err != donationstore.ErrInvalidTransition {
			h.Log.Error("payment webhook: mark failed", zap.Error(err))
			respond.ServerError(w)
			return
		}
		respond.Message(w, "acknowledged")
	default:
		respond.Message(w, "ignored")
	}
}

func (h *Handler) completePayment(ctx context.Context, w http.ResponseWriter, donation models.Donation, paymentID string) {
	completed, err := h.Donations.Complete(ctx, donation.ID, paymentID)
	if err != nil {
		if err == donationstore.ErrInvalidTransition {
			// Retried delivery; the first one already applied.
			respond.Message(w, "already processed")
			return
		}
		h.Log.Error("payment webhook: complete", zap.Error(err))
		respond.ServerError(w)
		return
	}

	if completed.ProgramID != nil {
		err := h.Programs.AddRaised(ctx, *completed.ProgramID, completed.Amount)
		if err != nil && err != programstore.ErrNotActive {
			h.Log.Error("payment webhook: add raised", zap.Error(err),
				zap.String("program_id", completed.ProgramID.Hex()))
		}
	}

	h.sendReceipt(ctx, completed)
	h.notifyNGO(ctx, completed)

	respond.OK(w, map[string]any{"receipt_number": completed.ReceiptNumber})
}

// sendReceipt emails the donor their receipt. Best-effort: a mail failure
// never fails the webhook, which would make the gateway retry a payment
// that already completed.
func (h *Handler) sendReceipt(ctx context.Context, donation models.Donation) {
	donor, err := h.Users.GetByID(ctx, donation.DonorID)
	if err != nil {
		h.Log.Warn("payment webhook: load donor", zap.Error(err))
		return
	}
	ngo, err := h.NGOs.GetByID(ctx, donation.NGOID)
	if err != nil {
		h.Log.Warn("payment webhook: load ngo", zap.Error(err))
		return
	}

	programTitle := ""
	if donation.ProgramID != nil {
		if program, err := h.Programs.GetByID(ctx, *donation.ProgramID); err == nil {
			programTitle = program.Title
		}
	}

	email := mailer.BuildReceiptEmail(mailer.ReceiptData{
		SiteName:      h.SiteName,
		DonorName:     donor.FullName,
		NGOName:       ngo.Name,
		ProgramTitle:  programTitle,
		AmountDisplay: amountDisplay(donation.Amount, donation.Currency),
		ReceiptNumber: donation.ReceiptNumber,
	})
	email.To = donor.Email
	if err := h.Mail.Send(email); err != nil {
		h.Log.Warn("payment webhook: send receipt", zap.Error(err), zap.String("to", donor.Email))
	}
}

// notifyNGO stores a notification for the organization's admins and
// pushes the completed donation to connected staff dashboards.
func (h *Handler) notifyNGO(ctx context.Context, donation models.Donation) {
	admins, err := h.Users.AdminsOf(ctx, donation.NGOID)
	if err != nil {
		h.Log.Warn("payment webhook: load admins", zap.Error(err))
		return
	}

	adminIDs := make([]primitive.ObjectID, 0, len(admins))
	for _, admin := range admins {
		adminIDs = append(adminIDs, admin.ID)
	}
	err = h.Notifications.CreateMany(ctx, adminIDs, models.Notification{
		Type:    models.NotifyDonationReceived,
		Title:   "Donation received",
		Message: fmt.Sprintf("A donation of %s was received.", amountDisplay(donation.Amount, donation.Currency)),
		Data: map[string]string{
			"donation_id": donation.ID.Hex(),
			"receipt":     donation.ReceiptNumber,
		},
	})
	if err != nil {
		h.Log.Warn("payment webhook: store notifications", zap.Error(err))
	}

	h.Hub.PublishToNGO(donation.NGOID.Hex(), events.Event{
		Kind:    events.KindDonationCompleted,
		Payload: map[string]any{"donation_id": donation.ID.Hex(), "amount": donation.Amount},
	})
}

// amountDisplay formats minor currency units for display,
// e.g. (150000, "INR") → "INR 1500.00".
func amountDisplay(amount int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", currency, amount/100, amount%100)
}
