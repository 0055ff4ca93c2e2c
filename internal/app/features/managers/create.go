// internal/app/features/managers/create.go
package managers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/store/audit"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/inputval"
	"github.com/sevahub/sevahub/internal/app/system/mailer"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

type createManagerRequest struct {
	FullName    string   `json:"full_name" validate:"required,max=120" label:"Full name"`
	Email       string   `json:"email" validate:"required,email" label:"Email address"`
	Permissions []string `json:"permissions"`
}

// newTempPassword builds the one-time password mailed to a new manager.
func newTempPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// delegatorPerms returns the caller's own delegated permission list, used
// to keep any grant a subset of what the caller holds.
func delegatorPerms(r *http.Request) []string {
	if user, ok := auth.CurrentUser(r); ok {
		return user.Permissions
	}
	return nil
}

// HandleCreate creates a manager account in the caller's organization
// with a delegated permission subset and mails the invite.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleManagers, authz.ActionCreate)
	if !gate.OK {
		return
	}
	// Delegated verbs never confer the right to mint further managers.
	if !authz.CanDelegateToRole(gate.Role, authz.RoleNGOManager) {
		respond.Forbidden(w)
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}

	var in createManagerRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		respond.ValidationErr(w, result.Messages())
		return
	}
	if denied := authz.ValidateDelegation(gate.Role, delegatorPerms(r), in.Permissions); denied != "" {
		respond.BadRequest(w, "you cannot delegate the "+denied+" permission")
		return
	}

	tempPass := newTempPassword()
	hash, err := userstore.HashPassword(tempPass)
	if err != nil {
		h.Log.Error("create manager: hash password", zap.Error(err))
		respond.ServerError(w)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create manager")
	defer cancel()

	ngo, err := h.NGOs.GetByID(ctx, ngoID)
	if err != nil {
		h.Log.Error("create manager: load ngo", zap.Error(err))
		respond.ServerError(w)
		return
	}

	manager, err := h.Users.Create(ctx, models.User{
		FullName:     normalize.Name(in.FullName),
		Email:        normalize.Email(in.Email),
		PasswordHash: hash,
		Role:         authz.RoleNGOManager,
		NGOID:        &ngoID,
		Permissions:  in.Permissions,
	})
	if err != nil {
		if err == userstore.ErrDuplicateEmail {
			respond.Conflict(w, "an account with this email already exists")
			return
		}
		h.Log.Error("create manager", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventManagerCreated, gate.UserID, &ngoID, "user", manager.ID, map[string]string{
		"permissions": strings.Join(in.Permissions, ","),
	})

	email := mailer.BuildManagerInviteEmail(mailer.ManagerInviteData{
		SiteName:    h.SiteName,
		NGOName:     ngo.Name,
		ManagerName: manager.FullName,
		Email:       manager.Email,
		TempPass:    tempPass,
		Permissions: in.Permissions,
	})
	if err := h.Mail.Send(email); err != nil {
		h.Log.Warn("create manager: send invite", zap.Error(err), zap.String("to", manager.Email))
	}

	if _, err := h.Notifications.Create(ctx, models.Notification{
		UserID:  manager.ID,
		Type:    models.NotifyManagerAdded,
		Title:   "Welcome to " + ngo.Name,
		Message: "You were added as a manager. Sign in with the password from your invite email and change it.",
		Data:    map[string]string{"ngo_id": ngoID.Hex()},
	}); err != nil {
		h.Log.Warn("create manager: store notification", zap.Error(err))
	}

	respond.Created(w, map[string]any{"manager": manager})
}
