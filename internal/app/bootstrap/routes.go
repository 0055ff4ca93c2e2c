// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	announcementsfeature "github.com/sevahub/sevahub/internal/app/features/announcements"
	auditlogfeature "github.com/sevahub/sevahub/internal/app/features/auditlog"
	authfeature "github.com/sevahub/sevahub/internal/app/features/auth"
	certificatesfeature "github.com/sevahub/sevahub/internal/app/features/certificates"
	dashboardfeature "github.com/sevahub/sevahub/internal/app/features/dashboard"
	donationsfeature "github.com/sevahub/sevahub/internal/app/features/donations"
	emergencyfeature "github.com/sevahub/sevahub/internal/app/features/emergency"
	grantsfeature "github.com/sevahub/sevahub/internal/app/features/grants"
	healthfeature "github.com/sevahub/sevahub/internal/app/features/health"
	managersfeature "github.com/sevahub/sevahub/internal/app/features/managers"
	ngosfeature "github.com/sevahub/sevahub/internal/app/features/ngos"
	notificationsfeature "github.com/sevahub/sevahub/internal/app/features/notifications"
	programsfeature "github.com/sevahub/sevahub/internal/app/features/programs"
	volunteersfeature "github.com/sevahub/sevahub/internal/app/features/volunteers"
	webhooksfeature "github.com/sevahub/sevahub/internal/app/features/webhooks"
	wsfeature "github.com/sevahub/sevahub/internal/app/features/ws"
	"github.com/sevahub/sevahub/internal/app/store/audit"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/mailer"
	"github.com/sevahub/sevahub/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. It wires the shared infrastructure (token
// manager, event hub, mailer, audit logger, file storage) and mounts
// every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.AccessTokenTTL, appCfg.RefreshTokenTTL, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}
	// Fresh user data on every request so role changes, permission edits,
	// and disabled accounts take effect immediately.
	tokens.SetUserFetcher(userstore.NewFetcher(db))

	// The BuildHandler hook carries no context of its own.
	files, err := buildStorage(context.Background(), appCfg)
	if err != nil {
		logger.Error("storage init failed", zap.Error(err))
		return nil, err
	}

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
	}, logger)

	hub := events.NewHub()
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	limiter := ratelimit.NewLoginLimiter()

	r := chi.NewRouter()

	// Global middleware: resolves the bearer token into the current user
	// for every request. Routes that need auth gate on its presence.
	r.Use(tokens.LoadBearerUser)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Authentication and account management
	r.Mount("/auth", authfeature.Routes(authfeature.NewHandler(db, tokens, limiter, auditLogger, logger)))

	// NGO onboarding, KYC, and public pages
	ngosHandler := ngosfeature.NewHandler(db, files, mail, hub, auditLogger, appCfg.SiteName, logger)
	r.Mount("/ngos", ngosfeature.Routes(ngosHandler))
	r.Mount("/ngo", ngosfeature.PublicRoutes(ngosHandler))

	// Programs and fundraising
	r.Mount("/programs", programsfeature.Routes(programsfeature.NewHandler(db, auditLogger, logger)))
	r.Mount("/donations", donationsfeature.Routes(donationsfeature.NewHandler(db, auditLogger, logger)))
	r.Mount("/webhooks", webhooksfeature.Routes(webhooksfeature.NewHandler(db, mail, hub, appCfg.WebhookSecret, appCfg.SiteName, logger)))

	// Volunteering, grants, certificates
	r.Mount("/volunteers", volunteersfeature.Routes(volunteersfeature.NewHandler(db, hub, auditLogger, logger)))
	r.Mount("/grants", grantsfeature.Routes(grantsfeature.NewHandler(db, hub, auditLogger, logger)))
	r.Mount("/certificates", certificatesfeature.Routes(certificatesfeature.NewHandler(db, auditLogger, logger)))

	// Emergency help routing
	r.Mount("/emergencies", emergencyfeature.Routes(emergencyfeature.NewHandler(db, hub, auditLogger, logger)))

	// Announcements and notifications
	r.Mount("/announcements", announcementsfeature.Routes(announcementsfeature.NewHandler(db, hub, auditLogger, logger)))
	r.Mount("/notifications", notificationsfeature.Routes(notificationsfeature.NewHandler(db, logger)))

	// Delegated manager accounts
	r.Mount("/managers", managersfeature.Routes(managersfeature.NewHandler(db, mail, auditLogger, appCfg.SiteName, logger)))

	// Role-shaped dashboards, live events, audit trail
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardfeature.NewHandler(db, logger)))
	r.Mount("/events", wsfeature.Routes(wsfeature.NewHandler(hub, logger)))
	r.Mount("/audit-log", auditlogfeature.Routes(auditlogfeature.NewHandler(db, logger)))

	return r, nil
}

// buildStorage selects the KYC document backend from config.
func buildStorage(ctx context.Context, appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case "local", "":
		return storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
	case "s3":
		return storage.NewS3(ctx, storage.S3Config{
			Region: appCfg.StorageS3Region,
			Bucket: appCfg.StorageS3Bucket,
			Prefix: appCfg.StorageS3Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage_type %q", appCfg.StorageType)
	}
}
