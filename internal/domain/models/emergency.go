// internal/domain/models/emergency.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Emergency request lifecycle states. A request moves
// pending → in_progress (via assignment) → resolved, or
// pending → rejected (via verification reject). A resolved request can
// never be reassigned.
const (
	EmergencyStatusPending    = "pending"
	EmergencyStatusInProgress = "in_progress"
	EmergencyStatusResolved   = "resolved"
	EmergencyStatusRejected   = "rejected"
)

// Verification sub-state, tracked orthogonally to the lifecycle state.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// EmergencyResolution is the payload recorded when a request is resolved.
type EmergencyResolution struct {
	Summary    string `bson:"summary" json:"summary"`
	ActionNote string `bson:"action_note,omitempty" json:"action_note,omitempty"`
}

// EmergencyRequest is a citizen's call for help, routed to an NGO.
type EmergencyRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequesterID primitive.ObjectID `bson:"requester_id" json:"requester_id"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	ContactInfo string             `bson:"contact_info,omitempty" json:"contact_info,omitempty"`

	Status       string `bson:"status" json:"status"`
	Verification string `bson:"verification" json:"verification"`

	AssignedToNGO *primitive.ObjectID `bson:"assigned_to_ngo,omitempty" json:"assigned_to_ngo,omitempty"`
	AssignedBy    *primitive.ObjectID `bson:"assigned_by,omitempty" json:"assigned_by,omitempty"`
	AssignedAt    *time.Time          `bson:"assigned_at,omitempty" json:"assigned_at,omitempty"`

	Resolution *EmergencyResolution `bson:"resolution,omitempty" json:"resolution,omitempty"`
	ResolvedAt *time.Time           `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CanAssign reports whether the request may be assigned to an NGO.
// Only a pending request can be assigned; a resolved or rejected request
// must never move back to in_progress.
func (e EmergencyRequest) CanAssign() bool {
	return e.Status == EmergencyStatusPending
}

// CanResolve reports whether the request may be marked resolved.
func (e EmergencyRequest) CanResolve() bool {
	return e.Status == EmergencyStatusInProgress
}

// CanRejectVerification reports whether the verification-reject transition
// applies. Rejecting verification also terminates a pending lifecycle.
func (e EmergencyRequest) CanRejectVerification() bool {
	return e.Status == EmergencyStatusPending && e.Verification != VerificationRejected
}
