// internal/app/features/auth/refresh.go
package auth

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// HandleRefresh exchanges a valid refresh token for a new token pair. The
// user record is re-read so role changes and disabled accounts take effect
// on rotation.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if in.RefreshToken == "" {
		respond.BadRequest(w, "refresh_token is required")
		return
	}

	userID, err := h.Tokens.ParseRefreshToken(in.RefreshToken)
	if err != nil {
		respond.Err(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		respond.Err(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "refresh token")
	defer cancel()

	user, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Err(w, http.StatusUnauthorized, "invalid or expired refresh token")
			return
		}
		h.Log.Error("refresh: fetch user", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if user.Status == models.UserStatusDisabled {
		respond.Err(w, http.StatusForbidden, "this account is disabled")
		return
	}

	ngoID := ""
	if user.NGOID != nil {
		ngoID = user.NGOID.Hex()
	}
	pair, err := h.newTokenPair(user.ID.Hex(), user.Role, ngoID)
	if err != nil {
		h.Log.Error("refresh: issue tokens", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.TokenRefreshed(ctx, r, user.ID)
	respond.OK(w, map[string]any{"tokens": pair})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleChangePassword lets a signed-in user rotate their password after
// re-proving the current one.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.CurrentUser(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var in changePasswordRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if len(in.NewPassword) < 8 || len(in.NewPassword) > 72 {
		respond.BadRequest(w, "new password must be between 8 and 72 characters")
		return
	}

	oid, err := primitive.ObjectIDFromHex(current.ID)
	if err != nil {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "change password")
	defer cancel()

	user, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		h.Log.Error("change password: fetch user", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !userstore.CheckPassword(user.PasswordHash, in.CurrentPassword) {
		respond.Err(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := userstore.HashPassword(in.NewPassword)
	if err != nil {
		h.Log.Error("change password: hash", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if err := h.Users.SetPassword(ctx, oid, hash); err != nil {
		h.Log.Error("change password: update", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.Message(w, "password updated")
}
