// internal/app/features/programs/handler.go
package programs

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	programstore "github.com/sevahub/sevahub/internal/app/store/programs"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
)

// Handler serves program management for NGO staff and public browsing.
type Handler struct {
	Programs *programstore.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a programs Handler bound to db.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Programs: programstore.New(db),
		Audit:    audit,
		Log:      logger,
	}
}
