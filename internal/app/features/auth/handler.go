// internal/app/features/auth/handler.go
package auth

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/ratelimit"
)

// Handler serves account registration and token endpoints.
type Handler struct {
	Users   *userstore.Store
	Tokens  *auth.TokenManager
	Limiter *ratelimit.LoginLimiter
	Audit   *auditlog.Logger
	Log     *zap.Logger
}

// NewHandler constructs an auth Handler bound to the user store and token
// manager.
func NewHandler(db *mongo.Database, tokens *auth.TokenManager, limiter *ratelimit.LoginLimiter, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   userstore.New(db),
		Tokens:  tokens,
		Limiter: limiter,
		Audit:   audit,
		Log:     logger,
	}
}

// tokenPair is the data payload returned by login and refresh.
type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (h *Handler) newTokenPair(userID, role, ngoID string) (tokenPair, error) {
	access, err := h.Tokens.IssueAccessToken(userID, role, ngoID)
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := h.Tokens.IssueRefreshToken(userID)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.Tokens.AccessTTL().Seconds()),
	}, nil
}
