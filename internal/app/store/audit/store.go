// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth     = "auth"
	CategoryAdmin    = "admin"
	CategorySecurity = "security"
)

// Auth event types
const (
	EventRegistered               = "user_registered"
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserDisabled  = "login_failed_user_disabled"
	EventLoginFailedRateLimit     = "login_failed_rate_limit"
	EventTokenRefreshed           = "token_refreshed"
	EventPasswordChanged          = "password_changed"
)

// Admin event types
const (
	EventNGORegistered         = "ngo_registered"
	EventKYCDocumentsSubmitted = "kyc_documents_submitted"
	EventKYCVerified           = "kyc_verified"
	EventKYCRejected           = "kyc_rejected"
	EventProgramCreated        = "program_created"
	EventProgramUpdated        = "program_updated"
	EventProgramDeleted        = "program_deleted"
	EventDonationCompleted     = "donation_completed"
	EventDonationRefunded      = "donation_refunded"
	EventVolunteerApproved     = "volunteer_approved"
	EventVolunteerRejected     = "volunteer_rejected"
	EventGrantRequested        = "grant_requested"
	EventGrantApproved         = "grant_approved"
	EventGrantDisbursed        = "grant_disbursed"
	EventGrantRejected         = "grant_rejected"
	EventCertificateIssued     = "certificate_issued"
	EventEmergencyAssigned     = "emergency_assigned"
	EventEmergencyResolved     = "emergency_resolved"
	EventEmergencyRejected     = "emergency_rejected"
	EventAnnouncementApproved  = "announcement_approved"
	EventAnnouncementRejected  = "announcement_rejected"
	EventManagerCreated        = "manager_created"
	EventManagerUpdated        = "manager_updated"
	EventManagerDeleted        = "manager_deleted"
	EventPermissionsDelegated  = "permissions_delegated"
)

// Event is one audit record.
type Event struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	CreatedAt time.Time           `bson:"created_at"`
	NGOID     *primitive.ObjectID `bson:"ngo_id,omitempty"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who performed the action and what it touched.
	ActorID  *primitive.ObjectID `bson:"actor_id,omitempty"`
	Entity   string              `bson:"entity,omitempty"`
	EntityID *primitive.ObjectID `bson:"entity_id,omitempty"`

	// Request context
	IP        string `bson:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter narrows List results.
type QueryFilter struct {
	NGOID     *primitive.ObjectID
	ActorID   *primitive.ObjectID
	Category  string
	EventType string
	Entity    string
	StartTime *time.Time
	EndTime   *time.Time
}

// Store manages audit records in the audit_log collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_log")}
}

// Log inserts one event, stamping CreatedAt when the caller left it zero.
func (s *Store) Log(ctx context.Context, ev Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, ev)
	return err
}

// List returns events matching the filter, newest first, with the total
// count for pagination.
func (s *Store) List(ctx context.Context, f QueryFilter, skip, limit int64) ([]Event, int64, error) {
	filter := bson.M{}
	if f.NGOID != nil {
		filter["ngo_id"] = *f.NGOID
	}
	if f.ActorID != nil {
		filter["actor_id"] = *f.ActorID
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.EventType != "" {
		filter["event_type"] = f.EventType
	}
	if f.Entity != "" {
		filter["entity"] = f.Entity
	}
	if f.StartTime != nil || f.EndTime != nil {
		t := bson.M{}
		if f.StartTime != nil {
			t["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			t["$lte"] = *f.EndTime
		}
		filter["created_at"] = t
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
