// internal/app/features/managers/manage.go
package managers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/store/audit"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/paging"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

func pathManagerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "managerID"))
	if err != nil {
		respond.BadRequest(w, "invalid manager id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleList returns the caller organization's manager accounts.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleManagers, authz.ActionRead)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list managers")
	defer cancel()

	mgrs, total, err := h.Users.ListManagers(ctx, ngoID, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list managers", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, paging.List{Items: mgrs, Meta: paging.NewMeta(p, total)})
}

type updatePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// HandleUpdatePermissions replaces a manager's delegated permission set.
// The new set must still be a subset of what the caller can delegate.
func (h *Handler) HandleUpdatePermissions(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleManagers, authz.ActionUpdate)
	if !gate.OK {
		return
	}
	if !authz.CanDelegateToRole(gate.Role, authz.RoleNGOManager) {
		respond.Forbidden(w)
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}
	id, ok := pathManagerID(w, r)
	if !ok {
		return
	}

	var req updatePermissionsRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	if denied := authz.ValidateDelegation(gate.Role, delegatorPerms(r), req.Permissions); denied != "" {
		respond.BadRequest(w, "you cannot delegate the "+denied+" permission")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update manager permissions")
	defer cancel()

	if err := h.Users.SetManagerPermissions(ctx, ngoID, id, req.Permissions); err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "manager")
			return
		}
		h.Log.Error("update manager permissions", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventPermissionsDelegated, gate.UserID, &ngoID, "user", id, map[string]string{
		"permissions": strings.Join(req.Permissions, ","),
	})

	manager, err := h.Users.GetManager(ctx, ngoID, id)
	if err != nil {
		h.Log.Error("update manager permissions: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, map[string]any{"manager": manager})
}

// HandleDelete removes a manager account from the caller's organization.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleManagers, authz.ActionDelete)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}
	id, ok := pathManagerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete manager")
	defer cancel()

	deleted, err := h.Users.DeleteManager(ctx, ngoID, id)
	if err != nil {
		h.Log.Error("delete manager", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if deleted == 0 {
		respond.NotFound(w, "manager")
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventManagerDeleted, gate.UserID, &ngoID, "user", id, nil)

	respond.Message(w, "manager removed")
}
