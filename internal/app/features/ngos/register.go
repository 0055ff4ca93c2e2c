// internal/app/features/ngos/register.go
package ngos

import (
	"net/http"

	"go.uber.org/zap"

	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	"github.com/sevahub/sevahub/internal/app/store/audit"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/inputval"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

type registerNGORequest struct {
	Name               string `json:"name" validate:"required,max=200" label:"Organization name"`
	RegistrationNumber string `json:"registration_number" validate:"max=60" label:"Registration number"`
	ContactEmail       string `json:"contact_email" validate:"required,email" label:"Contact email"`
	ContactPhone       string `json:"contact_phone" validate:"max=20" label:"Contact phone"`
	Address            string `json:"address" validate:"max=300" label:"Address"`
	City               string `json:"city" validate:"max=100" label:"City"`
	State              string `json:"state" validate:"max=100" label:"State"`
}

// HandleRegister creates an organization in the pending KYC state and binds
// the requesting user as its admin. Staff of an existing organization
// cannot register a second one.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}
	if gate.Role == authz.RoleNGOAdmin || gate.Role == authz.RoleNGOManager {
		respond.Conflict(w, "you already belong to an organization")
		return
	}
	if gate.Role == authz.RoleSuperAdmin {
		respond.BadRequest(w, "platform administrators cannot register organizations")
		return
	}

	var in registerNGORequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		respond.ValidationErr(w, result.Messages())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register ngo")
	defer cancel()

	ngo, err := h.NGOs.Create(ctx, models.NGO{
		Name:               normalize.Name(in.Name),
		RegistrationNumber: in.RegistrationNumber,
		ContactEmail:       normalize.Email(in.ContactEmail),
		ContactPhone:       in.ContactPhone,
		Address:            in.Address,
		City:               in.City,
		State:              in.State,
	})
	if err != nil {
		if err == ngostore.ErrDuplicateName {
			respond.Conflict(w, "an organization with this name already exists")
			return
		}
		h.Log.Error("register ngo: create", zap.Error(err))
		respond.ServerError(w)
		return
	}

	if err := h.Users.BindNGOAdmin(ctx, gate.UserID, ngo.ID); err != nil {
		h.Log.Error("register ngo: bind admin", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventNGORegistered, gate.UserID, &ngo.ID, "ngo", ngo.ID, map[string]string{
		"name": ngo.Name,
	})

	respond.Created(w, map[string]any{"ngo": ngo})
}
