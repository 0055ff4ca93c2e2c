// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents every account on the platform: superadmins, NGO admins,
// NGO managers, volunteers, donors, and citizens.
//
// NOTE:
//   - Permissions holds ad hoc delegated permission strings granted by an
//     NGO admin to a manager account. It layers on top of the role's static
//     permission table and is checked via simple inclusion.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName     string              `bson:"full_name" json:"full_name"`
	FullNameCI   string              `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string              `bson:"email" json:"email"`
	EmailCI      string              `bson:"email_ci" json:"-"`
	PasswordHash string              `bson:"password_hash,omitempty" json:"-"`
	Phone        string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string              `bson:"role" json:"role"` // super_admin | ngo_admin | ngo_manager | volunteer | donor | citizen
	Status       string              `bson:"status,omitempty" json:"status,omitempty"`
	NGOID        *primitive.ObjectID `bson:"ngo_id,omitempty" json:"ngo_id,omitempty"`
	Permissions  []string            `bson:"permissions,omitempty" json:"permissions,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// User status values.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)
