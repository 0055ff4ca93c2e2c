// internal/domain/models/volunteer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Volunteer registration status values.
const (
	VolunteerStatusApplied   = "applied"
	VolunteerStatusApproved  = "approved"
	VolunteerStatusRejected  = "rejected"
	VolunteerStatusWithdrawn = "withdrawn"
)

// VolunteerRegistration links a volunteer user to a program. Hours are
// accumulated through the log-hours operation after approval.
type VolunteerRegistration struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProgramID primitive.ObjectID `bson:"program_id" json:"program_id"`
	NGOID     primitive.ObjectID `bson:"ngo_id" json:"ngo_id"`

	Status      string              `bson:"status" json:"status"`
	Motivation  string              `bson:"motivation,omitempty" json:"motivation,omitempty"`
	HoursLogged float64             `bson:"hours_logged" json:"hours_logged"`
	DecidedBy   *primitive.ObjectID `bson:"decided_by,omitempty" json:"decided_by,omitempty"`
	DecidedAt   *time.Time          `bson:"decided_at,omitempty" json:"decided_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
