// internal/app/store/programs/programstore.go
package programstore

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

// ErrNotActive is returned when a raised-amount update targets a program
// that is not accepting donations.
var ErrNotActive = errors.New("program is not active")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("programs")}
}

// Create inserts a program in draft status under the given NGO.
func (s *Store) Create(ctx context.Context, p models.Program) (models.Program, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.TitleCI = text.Fold(p.Title)
	p.Status = models.ProgramStatusDraft
	p.RaisedAmount = 0
	if p.Currency == "" {
		p.Currency = "INR"
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Program{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Program, error) {
	var p models.Program
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Program{}, err
	}
	return p, nil
}

// ListByNGO returns an NGO's programs, optionally filtered by status,
// newest first.
func (s *Store) ListByNGO(ctx context.Context, ngoID primitive.ObjectID, status string, skip, limit int64) ([]models.Program, int64, error) {
	filter := bson.M{"ngo_id": ngoID}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter, skip, limit)
}

// ListActive returns active programs across all verified NGOs for the
// public browse view.
func (s *Store) ListActive(ctx context.Context, category string, skip, limit int64) ([]models.Program, int64, error) {
	filter := bson.M{"status": models.ProgramStatusActive}
	if category != "" {
		filter["category"] = category
	}
	return s.list(ctx, filter, skip, limit)
}

func (s *Store) list(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Program, int64, error) {
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

	var programs []models.Program
	if err := cur.All(ctx, &programs); err != nil {
		return nil, 0, err
	}
	return programs, total, nil
}

// Update modifies editable program fields.
func (s *Store) Update(ctx context.Context, id, ngoID primitive.ObjectID, p models.Program) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != "" {
		set["title"] = p.Title
		set["title_ci"] = text.Fold(p.Title)
	}
	if p.Description != "" {
		set["description"] = p.Description
	}
	if p.Category != "" {
		set["category"] = p.Category
	}
	if p.TargetAmount > 0 {
		set["target_amount"] = p.TargetAmount
	}
	if p.StartsAt != nil {
		set["starts_at"] = p.StartsAt
	}
	if p.EndsAt != nil {
		set["ends_at"] = p.EndsAt
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "ngo_id": ngoID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetStatus changes a program's lifecycle status. The filter is scoped to
// the owning NGO so one tenant cannot touch another's programs.
func (s *Store) SetStatus(ctx context.Context, id, ngoID primitive.ObjectID, status string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "ngo_id": ngoID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddRaised atomically increments a program's raised amount when a
// donation against it completes. Only active programs accumulate.
func (s *Store) AddRaised(ctx context.Context, id primitive.ObjectID, amount int64) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ProgramStatusActive},
		bson.M{
			"$inc": bson.M{"raised_amount": amount},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotActive
	}
	return nil
}

// CountByNGO is used on NGO dashboards.
func (s *Store) CountByNGO(ctx context.Context, ngoID primitive.ObjectID, status string) (int64, error) {
	filter := bson.M{"ngo_id": ngoID}
	if status != "" {
		filter["status"] = status
	}
	return s.c.CountDocuments(ctx, filter)
}
