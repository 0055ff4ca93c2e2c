// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types pushed after state transitions.
const (
	NotifyKYCDecision       = "kyc_decision"
	NotifyEmergencyAssigned = "emergency_assigned"
	NotifyEmergencyResolved = "emergency_resolved"
	NotifyVolunteerDecision = "volunteer_decision"
	NotifyDonationReceived  = "donation_received"
	NotifyGrantDecision     = "grant_decision"
	NotifyManagerAdded      = "manager_added"
	NotifyAnnouncement      = "announcement_published"
)

// Notification is a per-user message persisted for later retrieval and
// pushed best-effort over the realtime channel when the user is connected.
type Notification struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type    string             `bson:"type" json:"type"`
	Title   string             `bson:"title" json:"title"`
	Message string             `bson:"message,omitempty" json:"message,omitempty"`
	Data    map[string]string  `bson:"data,omitempty" json:"data,omitempty"`
	Read    bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
