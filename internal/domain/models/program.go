// internal/domain/models/program.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program status values.
const (
	ProgramStatusDraft     = "draft"
	ProgramStatusActive    = "active"
	ProgramStatusCompleted = "completed"
	ProgramStatusArchived  = "archived"
)

// Program is an NGO-run initiative that accepts donations and volunteers.
// Amounts are stored in minor currency units (paise/cents).
type Program struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NGOID       primitive.ObjectID `bson:"ngo_id" json:"ngo_id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Status      string             `bson:"status" json:"status"`

	TargetAmount int64  `bson:"target_amount,omitempty" json:"target_amount,omitempty"`
	RaisedAmount int64  `bson:"raised_amount" json:"raised_amount"`
	Currency     string `bson:"currency,omitempty" json:"currency,omitempty"`

	StartsAt *time.Time `bson:"starts_at,omitempty" json:"starts_at,omitempty"`
	EndsAt   *time.Time `bson:"ends_at,omitempty" json:"ends_at,omitempty"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
