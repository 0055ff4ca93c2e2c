// internal/app/store/emergencies/emergencystore.go
package emergencystore

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

// ErrInvalidTransition is returned when a lifecycle change is requested
// from a state that does not allow it. A resolved request can never be
// reassigned, so the transitions are enforced with conditional updates.
var ErrInvalidTransition = errors.New("operation not allowed in the request's current state")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("emergency_requests")}
}

// Create files an emergency request in the pending state.
func (s *Store) Create(ctx context.Context, req models.EmergencyRequest) (models.EmergencyRequest, error) {
	now := time.Now().UTC()
	req.ID = primitive.NewObjectID()
	req.Status = models.EmergencyStatusPending
	req.Verification = models.VerificationPending
	req.CreatedAt = now
	req.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return models.EmergencyRequest{}, err
	}
	return req, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.EmergencyRequest, error) {
	var req models.EmergencyRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return models.EmergencyRequest{}, err
	}
	return req, nil
}

// Assign routes a pending request to an NGO and marks it in_progress.
// Assignment implies the request passed verification.
func (s *Store) Assign(ctx context.Context, id, ngoID, assignerID primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.EmergencyStatusPending},
		bson.M{"$set": bson.M{
			"status":          models.EmergencyStatusInProgress,
			"verification":    models.VerificationVerified,
			"assigned_to_ngo": ngoID,
			"assigned_by":     assignerID,
			"assigned_at":     now,
			"updated_at":      now,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// Resolve closes an in-progress request with a resolution record, scoped
// to the assigned NGO.
func (s *Store) Resolve(ctx context.Context, id, ngoID primitive.ObjectID, resolution models.EmergencyResolution) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":             id,
			"assigned_to_ngo": ngoID,
			"status":          models.EmergencyStatusInProgress,
		},
		bson.M{"$set": bson.M{
			"status":      models.EmergencyStatusResolved,
			"resolution":  resolution,
			"resolved_at": now,
			"updated_at":  now,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// RejectVerification declines a pending request. The lifecycle terminates
// in rejected; the request never reaches an NGO.
func (s *Store) RejectVerification(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":          id,
			"status":       models.EmergencyStatusPending,
			"verification": bson.M{"$ne": models.VerificationRejected},
		},
		bson.M{"$set": bson.M{
			"status":       models.EmergencyStatusRejected,
			"verification": models.VerificationRejected,
			"updated_at":   time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// List returns requests platform-wide, optionally filtered by status,
// newest first.
func (s *Store) List(ctx context.Context, status string, skip, limit int64) ([]models.EmergencyRequest, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter, skip, limit)
}

// ListByNGO returns the requests assigned to one NGO.
func (s *Store) ListByNGO(ctx context.Context, ngoID primitive.ObjectID, status string, skip, limit int64) ([]models.EmergencyRequest, int64, error) {
	filter := bson.M{"assigned_to_ngo": ngoID}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter, skip, limit)
}

// ListByRequester returns a citizen's own requests.
func (s *Store) ListByRequester(ctx context.Context, requesterID primitive.ObjectID, skip, limit int64) ([]models.EmergencyRequest, int64, error) {
	return s.list(ctx, bson.M{"requester_id": requesterID}, skip, limit)
}

func (s *Store) list(ctx context.Context, filter bson.M, skip, limit int64) ([]models.EmergencyRequest, int64, error) {
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

	var reqs []models.EmergencyRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

// CountByStatus is used on the superadmin dashboard.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}
