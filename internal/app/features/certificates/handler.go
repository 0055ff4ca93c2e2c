// internal/app/features/certificates/handler.go
package certificates

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	certificatestore "github.com/sevahub/sevahub/internal/app/store/certificates"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
)

// Handler serves certificate issuance and the public verification lookup.
type Handler struct {
	Certificates *certificatestore.Store
	NGOs         *ngostore.Store
	Users        *userstore.Store
	Audit        *auditlog.Logger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Certificates: certificatestore.New(db),
		NGOs:         ngostore.New(db),
		Users:        userstore.New(db),
		Audit:        audit,
		Log:          logger,
	}
}
