// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, writing the JSON error
// envelope when checks fail.
//
// # Three-Tier Authorization Pattern
//
// SevaHub uses a three-tier authorization approach:
//
//  1. Route-Level Middleware (auth.RequireSignedIn, auth.RequireRole,
//     authz.RequireMinLevel, authz.RequirePermission)
//     Applied in routes.go files for coarse-grained access control.
//     When middleware handles role checking, handlers don't need gates.
//
//  2. Handler-Level Gates (this package)
//     Used in handlers that need role checks WITHOUT route-level middleware,
//     or need different requirements than the route group. Gates write the
//     error response and return user context (role, name, userID).
//
//  3. Policy Layer (internal/app/policy/*)
//     Used for resource-specific authorization requiring database lookups.
//     Example: ngopolicy.CanManageNGO checks whether the user may act on a
//     specific organization. Policies return (bool, error); callers handle
//     error rendering.
//
// Don't use gates in handlers that are behind role-specific middleware.
// If routes.go has RequireRole(authz.RoleSuperAdmin), handlers use
// authz.UserCtx(r) to read user context without re-checking.
package gates

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/respond"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role   string
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// RequireAuth ensures a user is authenticated. If not, it writes a 401
// envelope and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireSuperAdmin ensures the user is a signed-in superadmin.
func RequireSuperAdmin(w http.ResponseWriter, r *http.Request) Result {
	return RequireAnyRole(w, r, authz.RoleSuperAdmin)
}

// RequireNGOStaff ensures the user is an NGO admin or manager.
func RequireNGOStaff(w http.ResponseWriter, r *http.Request) Result {
	return RequireAnyRole(w, r, authz.RoleNGOAdmin, authz.RoleNGOManager)
}

// RequireAnyRole ensures the user is authenticated and has one of the
// given roles: 401 when anonymous, 403 when the role doesn't match.
func RequireAnyRole(w http.ResponseWriter, r *http.Request, allowedRoles ...string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return Result{OK: false}
	}
	for _, allowed := range allowedRoles {
		if role == allowed {
			return Result{Role: role, Name: name, UserID: uid, OK: true}
		}
	}
	respond.Forbidden(w)
	return Result{OK: false}
}

// RequirePermission ensures the user may perform action on module, taking
// the user's delegated permission grants into account.
func RequirePermission(w http.ResponseWriter, r *http.Request, module, action string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return Result{OK: false}
	}
	if !authz.Allowed(r, module, action) {
		respond.Forbidden(w)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireNGOScope ensures the user belongs to the given NGO, or is a
// superadmin. Writes 403 for staff of other organizations.
func RequireNGOScope(w http.ResponseWriter, r *http.Request, ngoID primitive.ObjectID) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return Result{OK: false}
	}
	if role == authz.RoleSuperAdmin {
		return Result{Role: role, Name: name, UserID: uid, OK: true}
	}
	if own := authz.UserNGOID(r); own.IsZero() || own != ngoID {
		respond.Forbidden(w)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}
