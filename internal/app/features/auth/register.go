// internal/app/features/auth/register.go
package auth

import (
	"net/http"

	"go.uber.org/zap"

	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/inputval"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

type registerRequest struct {
	FullName string `json:"full_name" validate:"required,max=120" label:"Full name"`
	Email    string `json:"email" validate:"required,email" label:"Email address"`
	Password string `json:"password" validate:"required,min=8,max=72" label:"Password"`
	Phone    string `json:"phone" validate:"max=20" label:"Phone"`
	Role     string `json:"role" validate:"required,signuprole" label:"Role"`
}

// HandleRegister creates a self-service account (volunteer, donor, or
// citizen) and returns a token pair so the client is signed in at once.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		respond.ValidationErr(w, result.Messages())
		return
	}

	hash, err := userstore.HashPassword(in.Password)
	if err != nil {
		h.Log.Error("register: hash password", zap.Error(err))
		respond.ServerError(w)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register user")
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		FullName:     normalize.Name(in.FullName),
		Email:        normalize.Email(in.Email),
		PasswordHash: hash,
		Phone:        in.Phone,
		Role:         normalize.Role(in.Role),
	})
	if err != nil {
		if err == userstore.ErrDuplicateEmail {
			respond.Conflict(w, "an account with this email already exists")
			return
		}
		h.Log.Error("register: create user", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.Registered(ctx, r, user.ID, user.Role)

	pair, err := h.newTokenPair(user.ID.Hex(), user.Role, "")
	if err != nil {
		h.Log.Error("register: issue tokens", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.Created(w, map[string]any{
		"user":   user,
		"tokens": pair,
	})
}
