// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for SevaHub. They are
// loaded through WAFFLE's config system with support for config files,
// environment variables (SEVAHUB_MONGO_URI, ...), and command-line flags.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "seva_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Bearer tokens
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "JWT signing secret (must be strong in production)"},
	{Name: "access_token_ttl", Default: "15m", Desc: "Access token lifetime (e.g., 15m, 1h)"},
	{Name: "refresh_token_ttl", Default: "720h", Desc: "Refresh token lifetime (e.g., 720h for 30 days)"},

	// KYC document storage
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads/kyc", Desc: "Local storage path for uploaded KYC documents"},
	{Name: "storage_local_url", Default: "/files/kyc", Desc: "URL prefix for serving local files"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "kyc/", Desc: "S3 key prefix"},

	// Email/SMTP
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank drops mail, for local dev)"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "SevaHub <no-reply@sevahub.org>", Desc: "From address for outgoing mail"},

	// Site identity
	{Name: "site_name", Default: "SevaHub", Desc: "Site name used in emails and receipts"},
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for links in emails"},

	// Audit logging
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Payment gateway webhooks
	{Name: "webhook_secret", Default: "", Desc: "Shared secret for verifying payment gateway webhooks"},

	// Platform administrator bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the platform administrator (created on startup when absent)"},
	{Name: "superadmin_name", Default: "Platform Administrator", Desc: "Display name for the bootstrapped administrator"},
	{Name: "superadmin_password", Default: "", Desc: "Initial password for the bootstrapped administrator"},
}

// LoadConfig loads WAFFLE core config and app-specific config. It runs
// early in startup so both layers have configuration before any backends
// or handlers are built. Precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SEVAHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:       appValues.String("jwt_secret"),
		AccessTokenTTL:  appValues.Duration("access_token_ttl", 15*time.Minute),
		RefreshTokenTTL: appValues.Duration("refresh_token_ttl", 30*24*time.Hour),

		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),
		StorageS3Region:  appValues.String("storage_s3_region"),
		StorageS3Bucket:  appValues.String("storage_s3_bucket"),
		StorageS3Prefix:  appValues.String("storage_s3_prefix"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),

		SiteName: appValues.String("site_name"),
		BaseURL:  appValues.String("base_url"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		WebhookSecret: appValues.String("webhook_secret"),

		SuperAdminEmail:    appValues.String("superadmin_email"),
		SuperAdminName:     appValues.String("superadmin_name"),
		SuperAdminPassword: appValues.String("superadmin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig enforces invariants that would otherwise surface as
// confusing runtime failures: a parseable Mongo URI, a real JWT secret
// outside dev, and a complete S3 configuration when S3 is selected.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env == "prod" {
		if len(appCfg.JWTSecret) < 32 || appCfg.JWTSecret == "dev-only-change-me-please-0123456789ABCDEF" {
			return fmt.Errorf("jwt_secret must be set to a strong value in production")
		}
		if appCfg.WebhookSecret == "" {
			return fmt.Errorf("webhook_secret must be set in production")
		}
	}

	if appCfg.StorageType == "s3" && (appCfg.StorageS3Region == "" || appCfg.StorageS3Bucket == "") {
		return fmt.Errorf("storage_type 's3' requires storage_s3_region and storage_s3_bucket")
	}

	return nil
}
