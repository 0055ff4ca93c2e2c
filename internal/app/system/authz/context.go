// internal/app/system/authz/context.go
package authz

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sevahub/sevahub/internal/app/system/auth"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns "public", "", NilObjectID, false so callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return RolePublic, "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in token context - fail closed.
		return RolePublic, "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsSuperAdmin reports whether the current request's user is a superadmin.
func IsSuperAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleSuperAdmin
}

// UserNGOID returns the current user's NGO ID as an ObjectID.
// Returns NilObjectID if the user is not signed in or has no NGO.
func UserNGOID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.NGOID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.NGOID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// Allowed reports whether the current request's user may perform action on
// module, considering both the role table and any delegated grants.
// Anonymous requests are checked against the public role.
func Allowed(r *http.Request, module, action string) bool {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return CheckPermission(RolePublic, module, action, nil)
	}
	return CheckPermission(user.Role, module, action, user.Permissions)
}
