// internal/app/features/volunteers/handler.go
package volunteers

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	notificationstore "github.com/sevahub/sevahub/internal/app/store/notifications"
	programstore "github.com/sevahub/sevahub/internal/app/store/programs"
	volunteerstore "github.com/sevahub/sevahub/internal/app/store/volunteers"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	"github.com/sevahub/sevahub/internal/app/system/events"
)

// Handler serves volunteer registrations: applying to programs, staff
// decisions, withdrawal, and hour logging.
type Handler struct {
	Volunteers    *volunteerstore.Store
	Programs      *programstore.Store
	Notifications *notificationstore.Store
	Hub           *events.Hub
	Audit         *auditlog.Logger
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, hub *events.Hub, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Volunteers:    volunteerstore.New(db),
		Programs:      programstore.New(db),
		Notifications: notificationstore.New(db),
		Hub:           hub,
		Audit:         audit,
		Log:           logger,
	}
}
