// internal/app/features/grants/handler.go
package grants

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	grantstore "github.com/sevahub/sevahub/internal/app/store/grants"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	notificationstore "github.com/sevahub/sevahub/internal/app/store/notifications"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	"github.com/sevahub/sevahub/internal/app/system/events"
)

// Handler serves grant requests: NGO admins ask for funding, superadmins
// decide and disburse.
type Handler struct {
	Grants        *grantstore.Store
	NGOs          *ngostore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Hub           *events.Hub
	Audit         *auditlog.Logger
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, hub *events.Hub, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Grants:        grantstore.New(db),
		NGOs:          ngostore.New(db),
		Users:         userstore.New(db),
		Notifications: notificationstore.New(db),
		Hub:           hub,
		Audit:         audit,
		Log:           logger,
	}
}
