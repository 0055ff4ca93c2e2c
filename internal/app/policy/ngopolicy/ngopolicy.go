// internal/app/policy/ngopolicy/ngopolicy.go
package ngopolicy

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sevahub/sevahub/internal/app/system/authz"
)

// IsStaffOf reports whether the given user is an admin or manager of the
// given NGO according to the authoritative users collection. Token claims
// carry the binding too, but decisions that matter re-check the database
// so a revoked account loses access immediately.
func IsStaffOf(ctx context.Context, db *mongo.Database, ngoID, userID primitive.ObjectID) (bool, error) {
	n, err := db.Collection("users").CountDocuments(ctx, bson.M{
		"_id":    userID,
		"ngo_id": ngoID,
		"role":   bson.M{"$in": []string{authz.RoleNGOAdmin, authz.RoleNGOManager}},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanManageNGO reports whether the current request user may act on the
// given organization:
//   - Superadmins always can.
//   - NGO admins and managers can when the organization is their own.
//
// Returns (false, nil) for "not authorized" so callers can distinguish it
// from a database error.
func CanManageNGO(ctx context.Context, db *mongo.Database, r *http.Request, ngoID primitive.ObjectID) (bool, error) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	if role == authz.RoleSuperAdmin {
		return true, nil
	}
	if role != authz.RoleNGOAdmin && role != authz.RoleNGOManager {
		return false, nil
	}
	if authz.UserNGOID(r) != ngoID {
		return false, nil
	}
	return IsStaffOf(ctx, db, ngoID, uid)
}
