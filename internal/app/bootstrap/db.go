// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/indexes"
)

// EnsureSchema creates the MongoDB indexes the stores rely on: unique
// emails and slugs, receipt and serial lookups, the one-application-per-
// program constraint, and the audit and notification query paths.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes", zap.Error(err))
		return err
	}
	logger.Info("database indexes ensured")
	return nil
}
