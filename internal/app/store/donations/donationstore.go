// internal/app/store/donations/donationstore.go
package donationstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sevahub/sevahub/internal/domain/models"
)

// ErrInvalidTransition is returned when a status change is requested from
// a status that does not allow it.
var ErrInvalidTransition = errors.New("operation not allowed in the donation's current status")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donations")}
}

// newReceiptNumber builds a unique human-quotable receipt reference.
func newReceiptNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("SEVA-%s-%s", now.Format("20060102"), id[:10])
}

// Create records a donation in the initiated status with a fresh receipt
// number, before the donor is handed off to the payment gateway.
func (s *Store) Create(ctx context.Context, d models.Donation) (models.Donation, error) {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.Status = models.DonationStatusInitiated
	d.ReceiptNumber = newReceiptNumber(now)
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Donation{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Donation, error) {
	var d models.Donation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return models.Donation{}, err
	}
	return d, nil
}

func (s *Store) GetByReceipt(ctx context.Context, receipt string) (models.Donation, error) {
	var d models.Donation
	if err := s.c.FindOne(ctx, bson.M{"receipt_number": receipt}).Decode(&d); err != nil {
		return models.Donation{}, err
	}
	return d, nil
}

// GetByGatewayOrder resolves the donation a gateway webhook refers to.
func (s *Store) GetByGatewayOrder(ctx context.Context, orderID string) (models.Donation, error) {
	var d models.Donation
	if err := s.c.FindOne(ctx, bson.M{"gateway_order_id": orderID}).Decode(&d); err != nil {
		return models.Donation{}, err
	}
	return d, nil
}

// Complete marks an initiated donation as completed with the gateway's
// payment reference. The conditional filter makes webhook retries
// idempotent: a second delivery matches nothing.
func (s *Store) Complete(ctx context.Context, id primitive.ObjectID, paymentID string) (models.Donation, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.DonationStatusInitiated},
		bson.M{"$set": bson.M{
			"status":             models.DonationStatusCompleted,
			"gateway_payment_id": paymentID,
			"completed_at":       now,
			"updated_at":         now,
		}})
	if err != nil {
		return models.Donation{}, err
	}
	if res.MatchedCount == 0 {
		return models.Donation{}, ErrInvalidTransition
	}
	return s.GetByID(ctx, id)
}

// Fail marks an initiated donation as failed.
func (s *Store) Fail(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.DonationStatusInitiated},
		bson.M{"$set": bson.M{
			"status":     models.DonationStatusFailed,
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

// Refund marks a completed donation as refunded.
func (s *Store) Refund(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.DonationStatusCompleted},
		bson.M{"$set": bson.M{
			"status":     models.DonationStatusRefunded,
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

// ListByDonor returns a donor's donation history, newest first.
func (s *Store) ListByDonor(ctx context.Context, donorID primitive.ObjectID, skip, limit int64) ([]models.Donation, int64, error) {
	return s.list(ctx, bson.M{"donor_id": donorID}, skip, limit)
}

// ListByNGO returns donations to an NGO, optionally filtered by status.
func (s *Store) ListByNGO(ctx context.Context, ngoID primitive.ObjectID, status string, skip, limit int64) ([]models.Donation, int64, error) {
	filter := bson.M{"ngo_id": ngoID}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter, skip, limit)
}

func (s *Store) list(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Donation, int64, error) {
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

	var donations []models.Donation
	if err := cur.All(ctx, &donations); err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}

// Totals summarizes completed donations for dashboards.
type Totals struct {
	Count  int64 `bson:"count" json:"count"`
	Amount int64 `bson:"amount" json:"amount"`
}

// TotalsForNGO aggregates completed donation count and amount for one NGO.
func (s *Store) TotalsForNGO(ctx context.Context, ngoID primitive.ObjectID) (Totals, error) {
	return s.totals(ctx, bson.M{"ngo_id": ngoID, "status": models.DonationStatusCompleted})
}

// TotalsForDonor aggregates a donor's completed giving.
func (s *Store) TotalsForDonor(ctx context.Context, donorID primitive.ObjectID) (Totals, error) {
	return s.totals(ctx, bson.M{"donor_id": donorID, "status": models.DonationStatusCompleted})
}

// TotalsOverall aggregates completed donations platform-wide.
func (s *Store) TotalsOverall(ctx context.Context) (Totals, error) {
	return s.totals(ctx, bson.M{"status": models.DonationStatusCompleted})
}

func (s *Store) totals(ctx context.Context, match bson.M) (Totals, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$amount"},
		}}},
	})
	if err != nil {
		return Totals{}, err
	}
	defer cur.Close(ctx)

	var rows []Totals
	if err := cur.All(ctx, &rows); err != nil {
		return Totals{}, err
	}
	if len(rows) == 0 {
		return Totals{}, nil
	}
	return rows[0], nil
}
