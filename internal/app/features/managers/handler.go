// internal/app/features/managers/handler.go
package managers

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	notificationstore "github.com/sevahub/sevahub/internal/app/store/notifications"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	"github.com/sevahub/sevahub/internal/app/system/mailer"
)

// Handler serves manager accounts: NGO admins create managers with a
// delegated permission subset, adjust or revoke that subset, and remove
// the accounts.
type Handler struct {
	Users         *userstore.Store
	NGOs          *ngostore.Store
	Notifications *notificationstore.Store
	Mail          *mailer.Mailer
	Audit         *auditlog.Logger
	SiteName      string
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, mail *mailer.Mailer, audit *auditlog.Logger, siteName string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:         userstore.New(db),
		NGOs:          ngostore.New(db),
		Notifications: notificationstore.New(db),
		Mail:          mail,
		Audit:         audit,
		SiteName:      siteName,
		Log:           logger,
	}
}
