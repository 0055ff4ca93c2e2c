// internal/app/features/ngos/handler.go
package ngos

import (
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	notificationstore "github.com/sevahub/sevahub/internal/app/store/notifications"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/mailer"
)

// Handler serves NGO onboarding, KYC verification, and public pages.
type Handler struct {
	DB            *mongo.Database
	NGOs          *ngostore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Storage       storage.Store
	Mail          *mailer.Mailer
	Hub           *events.Hub
	Audit         *auditlog.Logger
	SiteName      string
	Log           *zap.Logger
}

// NewHandler constructs an NGO Handler with its stores bound to db.
func NewHandler(db *mongo.Database, files storage.Store, mail *mailer.Mailer, hub *events.Hub, audit *auditlog.Logger, siteName string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		NGOs:          ngostore.New(db),
		Users:         userstore.New(db),
		Notifications: notificationstore.New(db),
		Storage:       files,
		Mail:          mail,
		Hub:           hub,
		Audit:         audit,
		SiteName:      siteName,
		Log:           logger,
	}
}
