// internal/app/features/notifications/handler.go
package notifications

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	notificationstore "github.com/sevahub/sevahub/internal/app/store/notifications"
)

// Handler serves each user's own notification feed.
type Handler struct {
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Notifications: notificationstore.New(db),
		Log:           logger,
	}
}
