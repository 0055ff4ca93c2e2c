// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/domain/models"
)

var ErrDuplicateEmail = errors.New("an account with this email already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user. Email is stored lowercased; the unique index
// surfaces duplicates as ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.EmailCI = text.Fold(u.Email)
	u.FullNameCI = text.Fold(u.FullName)
	if u.Status == "" {
		u.Status = models.UserStatusActive
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks a user up by lowercased email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile modifies the user's own mutable fields.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName, phone string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if fullName != "" {
		set["full_name"] = fullName
		set["full_name_ci"] = text.Fold(fullName)
	}
	if phone != "" {
		set["phone"] = phone
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetPassword replaces the stored password hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	return err
}

// SetStatus enables or disables an account.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetNGO attaches a user to an NGO, used when an admin's organization
// record is created after their account.
func (s *Store) SetNGO(ctx context.Context, id, ngoID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"ngo_id":     ngoID,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// BindNGOAdmin promotes a user to ngo_admin of the given organization.
// Used when a signed-in user registers their NGO.
func (s *Store) BindNGOAdmin(ctx context.Context, id, ngoID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"role":       authz.RoleNGOAdmin,
		"ngo_id":     ngoID,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// AdminsOf returns the admin accounts of an NGO, used to address KYC
// decision emails and notifications.
func (s *Store) AdminsOf(ctx context.Context, ngoID primitive.ObjectID) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"ngo_id": ngoID, "role": authz.RoleNGOAdmin})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListManagers returns the manager accounts of one NGO with the total for
// pagination, sorted by folded name.
func (s *Store) ListManagers(ctx context.Context, ngoID primitive.ObjectID, skip, limit int64) ([]models.User, int64, error) {
	filter := bson.M{"ngo_id": ngoID, "role": authz.RoleNGOManager}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GetManager loads one manager account scoped to an NGO so an admin can
// never act on another organization's managers.
func (s *Store) GetManager(ctx context.Context, ngoID, userID primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{
		"_id":    userID,
		"ngo_id": ngoID,
		"role":   authz.RoleNGOManager,
	}).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetManagerPermissions replaces a manager's delegated permission list.
func (s *Store) SetManagerPermissions(ctx context.Context, ngoID, userID primitive.ObjectID, perms []string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "ngo_id": ngoID, "role": authz.RoleNGOManager},
		bson.M{"$set": bson.M{"permissions": perms, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteManager removes a manager account scoped to an NGO. Returns the
// number of documents deleted (0 or 1).
func (s *Store) DeleteManager(ctx context.Context, ngoID, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"_id":    userID,
		"ngo_id": ngoID,
		"role":   authz.RoleNGOManager,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByRole returns how many users hold a role, used on the superadmin
// dashboard.
func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": role})
}

// EnsureSuperAdmin creates the bootstrap superadmin account if no user with
// the email exists. Returns true when a new account was created.
func (s *Store) EnsureSuperAdmin(ctx context.Context, email, fullName, passwordHash string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, err
	}
	_, err = s.Create(ctx, models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         authz.RoleSuperAdmin,
		Status:       models.UserStatusActive,
	})
	if err != nil {
		// Lost a race with a concurrent bootstrap; the account exists.
		if errors.Is(err, ErrDuplicateEmail) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
