// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	userstore "github.com/sevahub/sevahub/internal/app/store/users"
)

// Startup runs one-time initialization after DB connections and schema
// setup are complete, but before the HTTP handler is built. SevaHub uses
// it to guarantee a platform administrator account exists.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail == "" {
		logger.Warn("superadmin_email not set; skipping administrator bootstrap")
		return nil
	}
	return ensureSuperAdmin(ctx, deps, appCfg, logger)
}

// ensureSuperAdmin creates the platform administrator when the configured
// email has no account yet. An existing account is left untouched so a
// forgotten config change cannot reset a live password.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.SuperAdminPassword == "" {
		return fmt.Errorf("superadmin_email is set but superadmin_password is empty")
	}

	hash, err := userstore.HashPassword(appCfg.SuperAdminPassword)
	if err != nil {
		return fmt.Errorf("hash superadmin password: %w", err)
	}

	created, err := userstore.New(deps.MongoDatabase).EnsureSuperAdmin(ctx, appCfg.SuperAdminEmail, appCfg.SuperAdminName, hash)
	if err != nil {
		return fmt.Errorf("ensure superadmin: %w", err)
	}
	if created {
		logger.Info("created platform administrator", zap.String("email", appCfg.SuperAdminEmail))
	} else {
		logger.Info("platform administrator already exists", zap.String("email", appCfg.SuperAdminEmail))
	}
	return nil
}
