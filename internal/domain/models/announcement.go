// internal/domain/models/announcement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement approval states. Drafts are submitted for approval; approval
// conditionally (re)sets the publish timestamp if it was unset or still in
// the future.
const (
	AnnouncementStatusDraft           = "draft"
	AnnouncementStatusPendingApproval = "pending_approval"
	AnnouncementStatusApproved        = "approved"
	AnnouncementStatusRejected        = "rejected"
)

// Announcement is a platform-wide or NGO-scoped notice. Body is stored as
// sanitized HTML.
type Announcement struct {
	ID      primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	NGOID   *primitive.ObjectID `bson:"ngo_id,omitempty" json:"ngo_id,omitempty"` // nil means platform-wide
	Title   string              `bson:"title" json:"title"`
	TitleCI string              `bson:"title_ci" json:"-"`
	Body    string              `bson:"body" json:"body"`

	Status       string              `bson:"status" json:"status"`
	RejectReason string              `bson:"reject_reason,omitempty" json:"reject_reason,omitempty"`
	ApprovedBy   *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	PublishAt    *time.Time          `bson:"publish_at,omitempty" json:"publish_at,omitempty"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Published reports whether the announcement is approved and its publish
// time has passed.
func (a Announcement) Published(now time.Time) bool {
	return a.Status == AnnouncementStatusApproved && a.PublishAt != nil && !a.PublishAt.After(now)
}
