// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

// Fetcher implements auth.UserFetcher: it loads fresh user data on each
// request so role changes, revoked delegations, and disabled accounts take
// effect without waiting for token expiry.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser retrieves a user by ID. Disabled accounts return
// auth.ErrUserDisabled so the middleware can answer 401 precisely.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) (*auth.TokenUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":         1,
		"full_name":   1,
		"email":       1,
		"role":        1,
		"status":      1,
		"ngo_id":      1,
		"permissions": 1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		return nil, err
	}

	if u.Status == models.UserStatusDisabled {
		return nil, auth.ErrUserDisabled
	}

	tu := &auth.TokenUser{
		ID:          u.ID.Hex(),
		Name:        u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Permissions,
	}
	if u.NGOID != nil {
		tu.NGOID = u.NGOID.Hex()
	}
	return tu, nil
}
