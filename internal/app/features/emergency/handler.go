// internal/app/features/emergency/handler.go
package emergency

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	emergencystore "github.com/sevahub/sevahub/internal/app/store/emergencies"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	notificationstore "github.com/sevahub/sevahub/internal/app/store/notifications"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	"github.com/sevahub/sevahub/internal/app/system/events"
)

// Handler serves emergency help requests: citizens file them, superadmins
// triage and route them to NGOs, assigned NGO staff resolve them.
type Handler struct {
	Emergencies   *emergencystore.Store
	NGOs          *ngostore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Hub           *events.Hub
	Audit         *auditlog.Logger
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, hub *events.Hub, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Emergencies:   emergencystore.New(db),
		NGOs:          ngostore.New(db),
		Users:         userstore.New(db),
		Notifications: notificationstore.New(db),
		Hub:           hub,
		Audit:         audit,
		Log:           logger,
	}
}
