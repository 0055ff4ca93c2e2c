// Package auth implements bearer-token authentication: a TokenManager that
// issues and verifies HMAC-signed access/refresh token pairs, and the
// middleware that loads the acting user into the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/respond"
)

// TokenUser is what the middleware caches in the request context after the
// bearer token is verified and the user record refreshed.
type TokenUser struct {
	ID          string
	Name        string
	Email       string
	Role        string
	NGOID       string
	Permissions []string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*TokenUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*TokenUser)
	return u, ok
}

// WithTestUser injects a user into the request context. Test helper only;
// production requests go through LoadBearerUser.
func WithTestUser(r *http.Request, u *TokenUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *TokenUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// UserFetcher loads fresh user data for a verified token subject so role
// changes and disabled accounts take effect immediately.
type UserFetcher interface {
	FetchUser(ctx context.Context, id string) (*TokenUser, error)
}

// ErrUserDisabled is returned by fetchers for accounts that may no longer
// sign in.
var ErrUserDisabled = errors.New("user account is disabled")

// AccessClaims are the claims carried in an access token.
type AccessClaims struct {
	Role  string `json:"role"`
	NGOID string `json:"ngo_id,omitempty"`
	jwt.RegisteredClaims
}

// refreshClaims carry only the subject; everything else is re-read from
// the user record at exchange time.
type refreshClaims struct {
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the access/refresh token pair.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	fetcher    UserFetcher
	log        *zap.Logger
}

// NewTokenManager builds a TokenManager. The signing secret must be at
// least 32 characters.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("token secret too short: need >=32 chars, got %d", len(secret))
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        logger,
	}, nil
}

// SetUserFetcher wires the store-backed fetcher used by LoadBearerUser.
func (tm *TokenManager) SetUserFetcher(f UserFetcher) { tm.fetcher = f }

// AccessTTL returns the configured access-token lifetime.
func (tm *TokenManager) AccessTTL() time.Duration { return tm.accessTTL }

// IssueAccessToken signs a short-lived access token for the user.
func (tm *TokenManager) IssueAccessToken(userID, role, ngoID string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Role:  role,
		NGOID: ngoID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// IssueRefreshToken signs a long-lived refresh token carrying only the
// user ID.
func (tm *TokenManager) IssueRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := refreshClaims{
		TokenUse: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// ParseAccessToken verifies signature and expiry and returns the claims.
func (tm *TokenManager) ParseAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, tm.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ParseRefreshToken verifies a refresh token and returns the user ID.
func (tm *TokenManager) ParseRefreshToken(token string) (string, error) {
	claims := &refreshClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, tm.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.TokenUse != "refresh" || claims.Subject == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, nil
}

func (tm *TokenManager) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrSignatureInvalid
	}
	return tm.secret, nil
}

// LoadBearerUser verifies the Authorization header if present and injects
// the (freshly fetched) user into context. Requests without a token pass
// through anonymously; enforcement happens in RequireSignedIn/RequireRole.
func (tm *TokenManager) LoadBearerUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := tm.ParseAccessToken(token)
		if err != nil {
			respond.Err(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if tm.fetcher == nil {
			next.ServeHTTP(w, withUser(r, &TokenUser{ID: claims.Subject, Role: claims.Role, NGOID: claims.NGOID}))
			return
		}

		u, err := tm.fetcher.FetchUser(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, ErrUserDisabled) {
				respond.Err(w, http.StatusUnauthorized, "account disabled")
				return
			}
			tm.log.Warn("bearer user fetch failed", zap.Error(err), zap.String("user_id", claims.Subject))
			respond.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn ensures there is a user in context (set by
// LoadBearerUser); otherwise 401.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			respond.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the current user has one of the allowed roles.
// 401 when not signed in, 403 when signed in with the wrong role.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				respond.Unauthorized(w)
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				respond.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
