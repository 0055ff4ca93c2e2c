// internal/app/features/announcements/handler.go
package announcements

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	announcementstore "github.com/sevahub/sevahub/internal/app/store/announcements"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	"github.com/sevahub/sevahub/internal/app/system/events"
)

// Handler serves announcements: NGO staff draft and submit, superadmins
// review, everyone reads the published feed.
type Handler struct {
	Announcements *announcementstore.Store
	Hub           *events.Hub
	Audit         *auditlog.Logger
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, hub *events.Hub, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Announcements: announcementstore.New(db),
		Hub:           hub,
		Audit:         audit,
		Log:           logger,
	}
}
