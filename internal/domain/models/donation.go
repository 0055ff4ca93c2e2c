// internal/domain/models/donation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation status values. A donation is created as initiated and flips to
// completed or failed when the payment gateway's webhook arrives. Refunds
// are marked manually by a superadmin.
const (
	DonationStatusInitiated = "initiated"
	DonationStatusCompleted = "completed"
	DonationStatusFailed    = "failed"
	DonationStatusRefunded  = "refunded"
)

// Payment gateway identifiers.
const (
	GatewayRazorpay = "razorpay"
	GatewayStripe   = "stripe"
)

// Donation records a single contribution. Amount is in minor currency units.
type Donation struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	DonorID   primitive.ObjectID  `bson:"donor_id" json:"donor_id"`
	NGOID     primitive.ObjectID  `bson:"ngo_id" json:"ngo_id"`
	ProgramID *primitive.ObjectID `bson:"program_id,omitempty" json:"program_id,omitempty"`

	Amount   int64  `bson:"amount" json:"amount"`
	Currency string `bson:"currency" json:"currency"`
	Message  string `bson:"message,omitempty" json:"message,omitempty"`

	Gateway          string `bson:"gateway" json:"gateway"`
	GatewayOrderID   string `bson:"gateway_order_id,omitempty" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string `bson:"gateway_payment_id,omitempty" json:"gateway_payment_id,omitempty"`
	ReceiptNumber    string `bson:"receipt_number" json:"receipt_number"`

	Status      string     `bson:"status" json:"status"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
