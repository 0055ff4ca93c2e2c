// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging, CORS, body limits). AppConfig is everything specific to
// SevaHub: database, tokens, storage, mail, webhooks, and the initial
// platform administrator.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer token configuration
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// KYC document storage: "local" or "s3"
	StorageType      string
	StorageLocalPath string
	StorageLocalURL  string
	StorageS3Region  string
	StorageS3Bucket  string
	StorageS3Prefix  string

	// Email/SMTP configuration
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string

	// Site identity used in emails and receipts
	SiteName string
	BaseURL  string

	// Audit logging: "all" (db+log), "db", "log", or "off" per category
	AuditLogAuth  string
	AuditLogAdmin string

	// Payment gateway webhook signing secret
	WebhookSecret string

	// Platform administrator bootstrap (created on startup when absent)
	SuperAdminEmail    string
	SuperAdminName     string
	SuperAdminPassword string
}
