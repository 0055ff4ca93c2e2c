// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/store/audit"
	"github.com/sevahub/sevahub/internal/app/system/ratelimit"
)

// Config controls where each event category goes.
// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only),
// "off" (disabled).
type Config struct {
	Auth  string
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and structured
// logs (via zap), per category configuration.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.NGOID != nil {
		fields = append(fields, zap.String("ngo_id", event.NGOID.Hex()))
	}
	if event.Entity != "" {
		fields = append(fields, zap.String("entity", event.Entity))
	}
	if event.EntityID != nil {
		fields = append(fields, zap.String("entity_id", event.EntityID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration. A nil Logger is a
// no-op so tests can skip audit wiring.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

// --- Authentication events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, ngoID *primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		ActorID:   &userID,
		NGOID:     ngoID,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}

// LoginFailed logs a failed login with the given event type and reason.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType, reason, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		IP:            ratelimit.ClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"attempted_email": email},
	})
}

// Registered logs a new account registration.
func (l *Logger) Registered(ctx context.Context, r *http.Request, userID primitive.ObjectID, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventRegistered,
		ActorID:   &userID,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"role": role},
	})
}

// TokenRefreshed logs a successful refresh-token exchange.
func (l *Logger) TokenRefreshed(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventTokenRefreshed,
		ActorID:   &userID,
		IP:        ratelimit.ClientIP(r),
		Success:   true,
	})
}

// --- Admin events ---

// AdminAction logs a state-changing admin operation on an entity.
func (l *Logger) AdminAction(ctx context.Context, r *http.Request, eventType string, actorID primitive.ObjectID, ngoID *primitive.ObjectID, entity string, entityID primitive.ObjectID, details map[string]string) {
	ev := audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   &actorID,
		NGOID:     ngoID,
		Entity:    entity,
		EntityID:  &entityID,
		Success:   true,
		Details:   details,
	}
	if r != nil {
		ev.IP = ratelimit.ClientIP(r)
		ev.UserAgent = r.UserAgent()
	}
	l.Log(ctx, ev)
}
