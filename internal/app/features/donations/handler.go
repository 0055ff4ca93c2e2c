// internal/app/features/donations/handler.go
package donations

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	programstore "github.com/sevahub/sevahub/internal/app/store/programs"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
)

// Handler serves donation initiation, history, and refund marking.
// Completion happens in the webhooks feature when the gateway calls back.
type Handler struct {
	Donations *donationstore.Store
	Programs  *programstore.Store
	NGOs      *ngostore.Store
	Audit     *auditlog.Logger
	Log       *zap.Logger
}

// NewHandler constructs a donations Handler bound to db.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Donations: donationstore.New(db),
		Programs:  programstore.New(db),
		NGOs:      ngostore.New(db),
		Audit:     audit,
		Log:       logger,
	}
}
