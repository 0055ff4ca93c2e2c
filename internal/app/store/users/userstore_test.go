package userstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/sevahub/sevahub/internal/testutil"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := userstore.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !userstore.CheckPassword(hash, "s3cret-pass") {
		t.Error("expected matching password to verify")
	}
	if userstore.CheckPassword(hash, "wrong-pass") {
		t.Error("expected wrong password to fail")
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Asha Patel",
		Email:    "Asha@Example.COM",
		Role:     "donor",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.EmailCI != "asha@example.com" {
		t.Errorf("expected folded email, got %q", created.EmailCI)
	}
	if created.Status != models.UserStatusActive {
		t.Errorf("expected status %q, got %q", models.UserStatusActive, created.Status)
	}

	// Lookup is case-insensitive.
	found, err := store.GetByEmail(ctx, "ASHA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("GetByEmail returned wrong user")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := models.User{FullName: "First", Email: "dup@test.com", Role: "citizen"}
	if _, err := store.Create(ctx, u); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	u.FullName = "Second"
	u.Email = "DUP@test.com"
	if _, err := store.Create(ctx, u); err != userstore.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_Managers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ngo := fx.CreateNGO(ctx, "Manager Test Org")
	otherNGO := fx.CreateNGO(ctx, "Other Org")

	m1 := fx.CreateManager(ctx, "Bela Manager", "bela@test.org", ngo.ID, []string{"programs:create"})
	fx.CreateManager(ctx, "Arun Manager", "arun@test.org", ngo.ID, nil)
	fx.CreateManager(ctx, "Outsider", "out@test.org", otherNGO.ID, nil)
	// NGO admins are not listed as managers.
	fx.CreateNGOAdmin(ctx, "Admin", "admin@test.org", ngo.ID)

	managers, total, err := store.ListManagers(ctx, ngo.ID, 0, 10)
	if err != nil {
		t.Fatalf("ListManagers failed: %v", err)
	}
	if total != 2 || len(managers) != 2 {
		t.Fatalf("got %d managers (total %d), want 2", len(managers), total)
	}
	// Sorted by folded name: Arun before Bela.
	if managers[0].FullName != "Arun Manager" {
		t.Errorf("expected Arun first, got %q", managers[0].FullName)
	}

	// GetManager is NGO-scoped.
	if _, err := store.GetManager(ctx, otherNGO.ID, m1.ID); err != mongo.ErrNoDocuments {
		t.Errorf("cross-tenant GetManager: expected ErrNoDocuments, got %v", err)
	}

	if err := store.SetManagerPermissions(ctx, ngo.ID, m1.ID, []string{"programs:create", "volunteers:approve"}); err != nil {
		t.Fatalf("SetManagerPermissions failed: %v", err)
	}
	got, err := store.GetManager(ctx, ngo.ID, m1.ID)
	if err != nil {
		t.Fatalf("GetManager failed: %v", err)
	}
	if len(got.Permissions) != 2 {
		t.Errorf("expected 2 permissions, got %v", got.Permissions)
	}

	deleted, err := store.DeleteManager(ctx, ngo.ID, m1.ID)
	if err != nil {
		t.Fatalf("DeleteManager failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}
	if _, err := store.GetManager(ctx, ngo.ID, m1.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected manager gone, got %v", err)
	}
}

func TestStore_EnsureSuperAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hash, err := userstore.HashPassword("bootstrap-pass-123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	created, err := store.EnsureSuperAdmin(ctx, "root@sevahub.org", "Platform Admin", hash)
	if err != nil {
		t.Fatalf("EnsureSuperAdmin failed: %v", err)
	}
	if !created {
		t.Error("expected first call to create the account")
	}

	// Second call is a no-op.
	created, err = store.EnsureSuperAdmin(ctx, "root@sevahub.org", "Platform Admin", hash)
	if err != nil {
		t.Fatalf("second EnsureSuperAdmin failed: %v", err)
	}
	if created {
		t.Error("expected second call to find the existing account")
	}

	n, err := store.CountByRole(ctx, "super_admin")
	if err != nil {
		t.Fatalf("CountByRole failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 superadmin, got %d", n)
	}
}
