// internal/app/store/certificates/certificatestore.go
package certificatestore

import (
	"context"
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

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("certificates")}
}

// newSerial builds a unique certificate serial that recipients can quote
// for verification.
func newSerial(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("CERT-%d-%s", now.Year(), id[:8])
}

// Issue creates a certificate with a fresh serial.
func (s *Store) Issue(ctx context.Context, cert models.Certificate) (models.Certificate, error) {
	now := time.Now().UTC()
	cert.ID = primitive.NewObjectID()
	cert.Serial = newSerial(now)
	cert.IssuedAt = now
	if _, err := s.c.InsertOne(ctx, cert); err != nil {
		return models.Certificate{}, err
	}
	return cert, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Certificate, error) {
	var cert models.Certificate
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cert); err != nil {
		return models.Certificate{}, err
	}
	return cert, nil
}

// GetBySerial backs the public verification endpoint.
func (s *Store) GetBySerial(ctx context.Context, serial string) (models.Certificate, error) {
	var cert models.Certificate
	if err := s.c.FindOne(ctx, bson.M{"serial": serial}).Decode(&cert); err != nil {
		return models.Certificate{}, err
	}
	return cert, nil
}

// ListByUser returns the certificates issued to a user, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Certificate, int64, error) {
	return s.list(ctx, bson.M{"user_id": userID}, skip, limit)
}

// ListByNGO returns the certificates an NGO has issued.
func (s *Store) ListByNGO(ctx context.Context, ngoID primitive.ObjectID, skip, limit int64) ([]models.Certificate, int64, error) {
	return s.list(ctx, bson.M{"ngo_id": ngoID}, skip, limit)
}

func (s *Store) list(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Certificate, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "issued_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var certs []models.Certificate
	if err := cur.All(ctx, &certs); err != nil {
		return nil, 0, err
	}
	return certs, total, nil
}
