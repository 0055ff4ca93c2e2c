// internal/app/features/auth/me.go
package auth

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/inputval"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

// ServeMe returns the signed-in user's full record.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.CurrentUser(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}
	oid, err := primitive.ObjectIDFromHex(current.ID)
	if err != nil {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load profile")
	defer cancel()

	user, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Unauthorized(w)
			return
		}
		h.Log.Error("me: fetch user", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, user)
}

type updateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,max=120" label:"Full name"`
	Phone    string `json:"phone" validate:"max=20" label:"Phone"`
}

// HandleUpdateProfile updates the signed-in user's editable fields.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.CurrentUser(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}
	var in updateProfileRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		respond.ValidationErr(w, result.Messages())
		return
	}
	oid, err := primitive.ObjectIDFromHex(current.ID)
	if err != nil {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update profile")
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, oid, normalize.Name(in.FullName), in.Phone); err != nil {
		h.Log.Error("update profile", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Message(w, "profile updated")
}
