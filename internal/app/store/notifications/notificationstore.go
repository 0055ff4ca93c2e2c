// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"time"

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
	return &Store{c: db.Collection("notifications")}
}

// Create persists one notification.
func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = primitive.NewObjectID()
	n.Read = false
	n.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// CreateMany fans one notification out to several users in a single write.
func (s *Store) CreateMany(ctx context.Context, userIDs []primitive.ObjectID, n models.Notification) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]any, 0, len(userIDs))
	for _, uid := range userIDs {
		doc := n
		doc.ID = primitive.NewObjectID()
		doc.UserID = uid
		doc.Read = false
		doc.CreatedAt = now
		docs = append(docs, doc)
	}
	_, err := s.c.InsertMany(ctx, docs)
	return err
}

// ListByUser returns a user's notifications, newest first. unreadOnly
// narrows to unread ones.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, skip, limit int64) ([]models.Notification, int64, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["read"] = false
	}

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

	var notifs []models.Notification
	if err := cur.All(ctx, &notifs); err != nil {
		return nil, 0, err
	}
	return notifs, total, nil
}

// MarkRead flags one of the user's notifications as read. Scoping the
// filter to the user keeps one account from touching another's inbox.
func (s *Store) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAllRead flags all of a user's notifications as read and reports how
// many changed.
func (s *Store) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// UnreadCount backs the badge on the dashboard shell.
func (s *Store) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
}
