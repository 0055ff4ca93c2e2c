// internal/app/features/ngos/list.go
package ngos

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/policy/ngopolicy"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/inputval"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/paging"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

// pathNGOID parses the {ngoID} route parameter, writing a 400 on bad input.
func pathNGOID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "ngoID"))
	if err != nil {
		respond.BadRequest(w, "invalid organization id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleList returns all organizations for the superadmin review queue,
// optionally filtered by KYC status.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if gate := gates.RequireSuperAdmin(w, r); !gate.OK {
		return
	}

	kycStatus := normalize.Status(r.URL.Query().Get("kyc_status"))
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list ngos")
	defer cancel()

	ngoList, total, err := h.NGOs.List(ctx, kycStatus, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list ngos", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.OK(w, paging.List{Items: ngoList, Meta: paging.NewMeta(p, total)})
}

// ServeGet returns one organization. Staff see their own organization,
// superadmins see any.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNGOID(w, r)
	if !ok {
		return
	}
	if gate := gates.RequireNGOScope(w, r, id); !gate.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get ngo")
	defer cancel()

	ngo, err := h.NGOs.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "organization")
			return
		}
		h.Log.Error("get ngo", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, map[string]any{"ngo": ngo})
}

type updateNGORequest struct {
	Name               string `json:"name" validate:"max=200" label:"Organization name"`
	RegistrationNumber string `json:"registration_number" validate:"max=60" label:"Registration number"`
	ContactEmail       string `json:"contact_email" validate:"max=254" label:"Contact email"`
	ContactPhone       string `json:"contact_phone" validate:"max=20" label:"Contact phone"`
	Address            string `json:"address" validate:"max=300" label:"Address"`
	City               string `json:"city" validate:"max=100" label:"City"`
	State              string `json:"state" validate:"max=100" label:"State"`
}

// HandleUpdate edits the organization's profile fields. Only fields present
// in the request change.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNGOID(w, r)
	if !ok {
		return
	}
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update ngo")
	defer cancel()

	allowed, err := ngopolicy.CanManageNGO(ctx, h.DB, r, id)
	if err != nil {
		h.Log.Error("update ngo: policy", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !allowed {
		respond.Forbidden(w)
		return
	}

	var in updateNGORequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		respond.ValidationErr(w, result.Messages())
		return
	}
	if in.ContactEmail != "" && !inputval.IsValidEmail(in.ContactEmail) {
		respond.BadRequest(w, "A valid contact email is required.")
		return
	}

	err = h.NGOs.Update(ctx, id, models.NGO{
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
		h.Log.Error("update ngo", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.Message(w, "organization updated")
}

// HandleDelete removes an organization. Superadmin only; meant for spam
// registrations that never started KYC.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNGOID(w, r)
	if !ok {
		return
	}
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete ngo")
	defer cancel()

	deleted, err := h.NGOs.Delete(ctx, id)
	if err != nil {
		h.Log.Error("delete ngo", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if deleted == 0 {
		respond.NotFound(w, "organization")
		return
	}
	respond.Message(w, "organization deleted")
}
