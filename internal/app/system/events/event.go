// internal/app/system/events/event.go

// Package events pushes real-time notifications to connected dashboard
// clients over WebSocket. Delivery is fire-and-forget: a slow or dead
// connection never blocks or fails the operation that produced the event.
package events

import "time"

// Event kinds pushed to clients.
const (
	KindNotification       = "notification"
	KindDonationCompleted  = "donation.completed"
	KindEmergencyCreated   = "emergency.created"
	KindEmergencyAssigned  = "emergency.assigned"
	KindEmergencyResolved  = "emergency.resolved"
	KindVolunteerApplied   = "volunteer.applied"
	KindAnnouncementPosted = "announcement.posted"
	KindKYCDecided         = "kyc.decided"
)

// Event is one message pushed to a client.
type Event struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}
