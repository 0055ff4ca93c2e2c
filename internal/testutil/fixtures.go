// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sevahub/sevahub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateNGO creates a verified test NGO with the given name.
func (f *Fixtures) CreateNGO(ctx context.Context, name string) models.NGO {
	f.t.Helper()

	now := time.Now().UTC()
	id := primitive.NewObjectID()
	ngo := models.NGO{
		ID:           id,
		Name:         name,
		NameCI:       text.Fold(name),
		Slug:         text.Fold(name) + "-" + id.Hex()[18:],
		ContactEmail: "contact@test.org",
		KYCStatus:    models.KYCStatusVerified,
		VerifiedAt:   &now,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("ngos").InsertOne(ctx, ngo); err != nil {
		f.t.Fatalf("failed to create test ngo: %v", err)
	}
	return ngo
}

// CreatePendingNGO creates a test NGO still awaiting KYC documents.
func (f *Fixtures) CreatePendingNGO(ctx context.Context, name string) models.NGO {
	f.t.Helper()

	now := time.Now().UTC()
	ngo := models.NGO{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		ContactEmail: "contact@test.org",
		KYCStatus:    models.KYCStatusPending,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("ngos").InsertOne(ctx, ngo); err != nil {
		f.t.Fatalf("failed to create test ngo: %v", err)
	}
	return ngo
}

// CreateUser creates a test user with the given role. For NGO staff roles,
// ngoID must be provided.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string, ngoID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		Role:       role,
		Status:     models.UserStatusActive,
		NGOID:      ngoID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateSuperAdmin creates a test superadmin user.
func (f *Fixtures) CreateSuperAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "super_admin", nil)
}

// CreateNGOAdmin creates a test NGO admin in the given NGO.
func (f *Fixtures) CreateNGOAdmin(ctx context.Context, fullName, email string, ngoID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "ngo_admin", &ngoID)
}

// CreateManager creates a test NGO manager with delegated permissions.
func (f *Fixtures) CreateManager(ctx context.Context, fullName, email string, ngoID primitive.ObjectID, perms []string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:          primitive.NewObjectID(),
		FullName:    fullName,
		FullNameCI:  text.Fold(fullName),
		Email:       email,
		EmailCI:     text.Fold(email),
		Role:        "ngo_manager",
		Status:      models.UserStatusActive,
		NGOID:       &ngoID,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test manager: %v", err)
	}
	return user
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		Role:       "citizen",
		Status:     models.UserStatusDisabled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create disabled test user: %v", err)
	}
	return user
}

// CreateProgram creates an active test program under the given NGO.
func (f *Fixtures) CreateProgram(ctx context.Context, title string, ngoID, createdBy primitive.ObjectID) models.Program {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Program{
		ID:        primitive.NewObjectID(),
		NGOID:     ngoID,
		Title:     title,
		TitleCI:   text.Fold(title),
		Status:    models.ProgramStatusActive,
		Currency:  "INR",
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("programs").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test program: %v", err)
	}
	return p
}

// CreateDonation creates a completed test donation.
func (f *Fixtures) CreateDonation(ctx context.Context, donorID, ngoID primitive.ObjectID, amount int64) models.Donation {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Donation{
		ID:            primitive.NewObjectID(),
		DonorID:       donorID,
		NGOID:         ngoID,
		Amount:        amount,
		Currency:      "INR",
		Gateway:       models.GatewayRazorpay,
		ReceiptNumber: "SEVA-TEST-" + strings.ToUpper(primitive.NewObjectID().Hex()[:10]),
		Status:        models.DonationStatusCompleted,
		CompletedAt:   &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("donations").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test donation: %v", err)
	}
	return d
}
