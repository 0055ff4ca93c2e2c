// internal/domain/models/grant.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Grant status values. Requested by an NGO admin; approved, disbursed, or
// rejected by a superadmin.
const (
	GrantStatusRequested = "requested"
	GrantStatusApproved  = "approved"
	GrantStatusDisbursed = "disbursed"
	GrantStatusRejected  = "rejected"
)

// Grant is a funding request from an NGO. Amount is in minor currency units.
type Grant struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NGOID   primitive.ObjectID `bson:"ngo_id" json:"ngo_id"`
	Purpose string             `bson:"purpose" json:"purpose"`
	Amount  int64              `bson:"amount" json:"amount"`

	Status       string              `bson:"status" json:"status"`
	DecisionNote string              `bson:"decision_note,omitempty" json:"decision_note,omitempty"`
	DecidedBy    *primitive.ObjectID `bson:"decided_by,omitempty" json:"decided_by,omitempty"`
	DecidedAt    *time.Time          `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
	DisbursedAt  *time.Time          `bson:"disbursed_at,omitempty" json:"disbursed_at,omitempty"`

	RequestedBy primitive.ObjectID `bson:"requested_by" json:"requested_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
