// internal/app/features/auth/login.go
package auth

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/store/audit"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// invalidCredentials is deliberately identical for unknown accounts and
// wrong passwords so the endpoint does not leak which emails exist.
const invalidCredentials = "invalid email or password"

// HandleLogin verifies credentials and returns a token pair.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		respond.BadRequest(w, "email and password are required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "login")
	defer cancel()

	if allowed, reason := h.Limiter.Check(r, email); !allowed {
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedRateLimit, reason, email)
		respond.Err(w, http.StatusTooManyRequests, reason)
		return
	}

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedUserNotFound, "user not found", email)
			respond.Err(w, http.StatusUnauthorized, invalidCredentials)
			return
		}
		h.Log.Error("login: fetch user", zap.Error(err))
		respond.ServerError(w)
		return
	}

	if !userstore.CheckPassword(user.PasswordHash, in.Password) {
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedWrongPassword, "wrong password", email)
		respond.Err(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	if user.Status == models.UserStatusDisabled {
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedUserDisabled, "account disabled", email)
		respond.Err(w, http.StatusForbidden, "this account is disabled")
		return
	}

	h.Limiter.ResetEmail(email)
	h.Audit.LoginSuccess(ctx, r, user.ID, user.NGOID, email)

	ngoID := ""
	if user.NGOID != nil {
		ngoID = user.NGOID.Hex()
	}
	pair, err := h.newTokenPair(user.ID.Hex(), user.Role, ngoID)
	if err != nil {
		h.Log.Error("login: issue tokens", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.OK(w, map[string]any{
		"user":   user,
		"tokens": pair,
	})
}
