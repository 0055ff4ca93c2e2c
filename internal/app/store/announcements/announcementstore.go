// internal/app/store/announcements/announcementstore.go
package announcementstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sevahub/sevahub/internal/domain/models"
)

// ErrInvalidTransition is returned when an approval-flow change is
// requested from a status that does not allow it.
var ErrInvalidTransition = errors.New("operation not allowed in the announcement's current status")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("announcements")}
}

// Create inserts an announcement as a draft. Body is sanitized by the
// caller before it reaches the store.
func (s *Store) Create(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.TitleCI = text.Fold(a.Title)
	a.Status = models.AnnouncementStatusDraft
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Announcement, error) {
	var a models.Announcement
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// Update edits a draft or rejected announcement. Editing after rejection
// leaves the status alone; the author resubmits explicitly.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, body string, publishAt *time.Time) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if title != "" {
		set["title"] = title
		set["title_ci"] = text.Fold(title)
	}
	if body != "" {
		set["body"] = body
	}
	if publishAt != nil {
		set["publish_at"] = publishAt
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":    id,
			"status": bson.M{"$in": []string{models.AnnouncementStatusDraft, models.AnnouncementStatusRejected}},
		},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// Submit moves a draft or rejected announcement into the approval queue.
func (s *Store) Submit(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":    id,
			"status": bson.M{"$in": []string{models.AnnouncementStatusDraft, models.AnnouncementStatusRejected}},
		},
		bson.M{
			"$set":   bson.M{"status": models.AnnouncementStatusPendingApproval, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"reject_reason": ""},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// Approve publishes a pending announcement. If the author never set a
// publish time, or set one already in the past, approval stamps "now" so
// the announcement goes live immediately; a future publish time survives.
func (s *Store) Approve(ctx context.Context, id, approverID primitive.ObjectID) error {
	var a models.Announcement
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	set := bson.M{
		"status":      models.AnnouncementStatusApproved,
		"approved_by": approverID,
		"updated_at":  now,
	}
	if a.PublishAt == nil || a.PublishAt.Before(now) {
		set["publish_at"] = now
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.AnnouncementStatusPendingApproval},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// Reject declines a pending announcement with a reason.
func (s *Store) Reject(ctx context.Context, id, reviewerID primitive.ObjectID, reason string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.AnnouncementStatusPendingApproval},
		bson.M{"$set": bson.M{
			"status":        models.AnnouncementStatusRejected,
			"reject_reason": reason,
			"approved_by":   reviewerID,
			"updated_at":    time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// ListPublic returns approved announcements whose publish time has passed.
// ngoID narrows to one NGO's notices plus platform-wide ones when non-nil.
func (s *Store) ListPublic(ctx context.Context, ngoID *primitive.ObjectID, skip, limit int64) ([]models.Announcement, int64, error) {
	filter := bson.M{
		"status":     models.AnnouncementStatusApproved,
		"publish_at": bson.M{"$lte": time.Now().UTC()},
	}
	if ngoID != nil {
		filter["$or"] = []bson.M{
			{"ngo_id": *ngoID},
			{"ngo_id": bson.M{"$exists": false}},
		}
	}
	return s.list(ctx, filter, skip, limit)
}

// ListPending returns the approval queue for superadmin review.
func (s *Store) ListPending(ctx context.Context, skip, limit int64) ([]models.Announcement, int64, error) {
	return s.list(ctx, bson.M{"status": models.AnnouncementStatusPendingApproval}, skip, limit)
}

// ListByNGO returns one NGO's announcements in any status, for its staff.
func (s *Store) ListByNGO(ctx context.Context, ngoID primitive.ObjectID, skip, limit int64) ([]models.Announcement, int64, error) {
	return s.list(ctx, bson.M{"ngo_id": ngoID}, skip, limit)
}

func (s *Store) list(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Announcement, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var anns []models.Announcement
	if err := cur.All(ctx, &anns); err != nil {
		return nil, 0, err
	}
	return anns, total, nil
}
