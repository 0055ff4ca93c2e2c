// internal/app/store/volunteers/volunteerstore.go
package volunteerstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sevahub/sevahub/internal/domain/models"
)

var (
	// ErrAlreadyApplied is returned when a volunteer applies to a program
	// they already have a registration for.
	ErrAlreadyApplied = errors.New("you have already applied to this program")

	ErrInvalidTransition = errors.New("operation not allowed in the registration's current status")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("volunteer_registrations")}
}

// Apply creates a registration in the applied status. The unique index on
// (user_id, program_id) rejects duplicates.
func (s *Store) Apply(ctx context.Context, reg models.VolunteerRegistration) (models.VolunteerRegistration, error) {
	now := time.Now().UTC()
	reg.ID = primitive.NewObjectID()
	reg.Status = models.VolunteerStatusApplied
	reg.HoursLogged = 0
	reg.CreatedAt = now
	reg.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, reg); err != nil {
		if wafflemongo.IsDup(err) {
			return models.VolunteerRegistration{}, ErrAlreadyApplied
		}
		return models.VolunteerRegistration{}, err
	}
	return reg, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.VolunteerRegistration, error) {
	var reg models.VolunteerRegistration
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&reg); err != nil {
		return models.VolunteerRegistration{}, err
	}
	return reg, nil
}

// Approve moves an application from applied to approved, recording who
// decided. Scoped to the NGO so staff cannot act across tenants.
func (s *Store) Approve(ctx context.Context, id, ngoID, deciderID primitive.ObjectID) error {
	return s.decide(ctx, id, ngoID, deciderID, models.VolunteerStatusApproved)
}

// Reject moves an application from applied to rejected.
func (s *Store) Reject(ctx context.Context, id, ngoID, deciderID primitive.ObjectID) error {
	return s.decide(ctx, id, ngoID, deciderID, models.VolunteerStatusRejected)
}

func (s *Store) decide(ctx context.Context, id, ngoID, deciderID primitive.ObjectID, status string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "ngo_id": ngoID, "status": models.VolunteerStatusApplied},
		bson.M{"$set": bson.M{
			"status":     status,
			"decided_by": deciderID,
			"decided_at": now,
			"updated_at": now,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// Withdraw lets a volunteer pull their own registration while it is
// applied or approved.
func (s *Store) Withdraw(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":     id,
			"user_id": userID,
			"status":  bson.M{"$in": []string{models.VolunteerStatusApplied, models.VolunteerStatusApproved}},
		},
		bson.M{"$set": bson.M{
			"status":     models.VolunteerStatusWithdrawn,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// LogHours accumulates volunteer hours on an approved registration.
func (s *Store) LogHours(ctx context.Context, id, ngoID primitive.ObjectID, hours float64) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "ngo_id": ngoID, "status": models.VolunteerStatusApproved},
		bson.M{
			"$inc": bson.M{"hours_logged": hours},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// ListByUser returns a volunteer's own registrations, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.VolunteerRegistration, int64, error) {
	return s.list(ctx, bson.M{"user_id": userID}, skip, limit)
}

// ListByNGO returns an NGO's registrations, optionally filtered by status.
func (s *Store) ListByNGO(ctx context.Context, ngoID primitive.ObjectID, status string, skip, limit int64) ([]models.VolunteerRegistration, int64, error) {
	filter := bson.M{"ngo_id": ngoID}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter, skip, limit)
}

func (s *Store) list(ctx context.Context, filter bson.M, skip, limit int64) ([]models.VolunteerRegistration, int64, error) {
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

	var regs []models.VolunteerRegistration
	if err := cur.All(ctx, &regs); err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

// CountByNGO is used on NGO dashboards.
func (s *Store) CountByNGO(ctx context.Context, ngoID primitive.ObjectID, status string) (int64, error) {
	filter := bson.M{"ngo_id": ngoID}
	if status != "" {
		filter["status"] = status
	}
	return s.c.CountDocuments(ctx, filter)
}

// TotalHoursForUser sums a volunteer's logged hours across registrations.
func (s *Store) TotalHoursForUser(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"hours": bson.M{"$sum": "$hours_logged"},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Hours float64 `bson:"hours"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Hours, nil
}
