// internal/app/store/grants/grantstore.go
package grantstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sevahub/sevahub/internal/domain/models"
)

// ErrInvalidTransition is returned when a grant decision is requested from
// a status that does not allow it.
var ErrInvalidTransition = errors.New("operation not allowed in the grant's current status")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("grants")}
}

// Request files a grant request in the requested status.
func (s *Store) Request(ctx context.Context, g models.Grant) (models.Grant, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.Status = models.GrantStatusRequested
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Grant{}, err
	}
	return g, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Grant, error) {
	var g models.Grant
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Grant{}, err
	}
	return g, nil
}

// Approve moves a grant from requested to approved.
func (s *Store) Approve(ctx context.Context, id, deciderID primitive.ObjectID, note string) error {
	return s.decide(ctx, id, deciderID, models.GrantStatusRequested, models.GrantStatusApproved, note)
}

// Reject moves a grant from requested to rejected with a decision note.
func (s *Store) Reject(ctx context.Context, id, deciderID primitive.ObjectID, note string) error {
	return s.decide(ctx, id, deciderID, models.GrantStatusRequested, models.GrantStatusRejected, note)
}

func (s *Store) decide(ctx context.Context, id, deciderID primitive.ObjectID, from, to, note string) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":     to,
		"decided_by": deciderID,
		"decided_at": now,
		"updated_at": now,
	}
	if note != "" {
		set["decision_note"] = note
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// Disburse marks an approved grant as paid out.
func (s *Store) Disburse(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.GrantStatusApproved},
		bson.M{"$set": bson.M{
			"status":       models.GrantStatusDisbursed,
			"disbursed_at": now,
			"updated_at":   now,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// ListByNGO returns one NGO's grant requests, optionally filtered by status.
func (s *Store) ListByNGO(ctx context.Context, ngoID primitive.ObjectID, status string, skip, limit int64) ([]models.Grant, int64, error) {
	filter := bson.M{"ngo_id": ngoID}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter, skip, limit)
}

// ListAll returns grant requests platform-wide for superadmin review.
func (s *Store) ListAll(ctx context.Context, status string, skip, limit int64) ([]models.Grant, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter, skip, limit)
}

func (s *Store) list(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Grant, int64, error) {
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

	var grants []models.Grant
	if err := cur.All(ctx, &grants); err != nil {
		return nil, 0, err
	}
	return grants, total, nil
}

// CountByStatus is used on the superadmin dashboard.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}
