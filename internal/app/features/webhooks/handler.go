// internal/app/features/webhooks/handler.go
package webhooks

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	notificationstore "github.com/sevahub/sevahub/internal/app/store/notifications"
	programstore "github.com/sevahub/sevahub/internal/app/store/programs"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/mailer"
)

// Handler receives payment gateway callbacks. These endpoints are called
// by the gateway, not by signed-in users, so they authenticate with the
// shared webhook secret instead of bearer tokens.
type Handler struct {
	Donations     *donationstore.Store
	Programs      *programstore.Store
	NGOs          *ngostore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Mail          *mailer.Mailer
	Hub           *events.Hub
	Secret        string
	SiteName      string
	Log           *zap.Logger
}

// NewHandler constructs a webhooks Handler bound to db.
func NewHandler(db *mongo.Database, mail *mailer.Mailer, hub *events.Hub, secret, siteName string, logger *zap.Logger) *Handler {
	return &Handler{
		Donations:     donationstore.New(db),
		Programs:      programstore.New(db),
		NGOs:          ngostore.New(db),
		Users:         userstore.New(db),
		Notifications: notificationstore.New(db),
		Mail:          mail,
		Hub:           hub,
		Secret:        secret,
		SiteName:      siteName,
		Log:           logger,
	}
}
