// internal/app/features/managers/handler_test.go
package managers_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/features/managers"
	"github.com/sevahub/sevahub/internal/app/store/audit"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/mailer"
	"github.com/sevahub/sevahub/internal/testutil"
)

func newTestHandler(t *testing.T) (*managers.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "db", Admin: "db"})
	h := managers.NewHandler(db, mailer.New(mailer.Config{}, logger), auditLogger, "SevaHub", logger)
	return h, testutil.NewFixtures(t, db)
}

func TestCreate_DelegatesSubsetAndStoresAccount(t *testing.T) {
	h, fx := newTestHandler(t)
	router := managers.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreateNGO(ctx, "Managed Org")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/", map[string]any{
		"full_name":   "New Manager",
		"email":       "new.manager@example.org",
		"permissions": []string{"create", "update"},
	}, testutil.NGOAdminUser(ngo.ID)))

	rec.AssertStatus(t, 201)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	manager, _ := data["manager"].(map[string]any)
	if manager["role"] != authz.RoleNGOManager {
		t.Errorf("role = %v, want ngo_manager", manager["role"])
	}
	if _, leaked := manager["password_hash"]; leaked {
		t.Error("password hash must not appear in the response")
	}

	// The stored account is bound to the organization and signs in with
	// a password, so a hash must exist.
	stored, err := userstore.New(fx.DB()).GetByEmail(ctx, "new.manager@example.org")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.NGOID == nil || *stored.NGOID != ngo.ID {
		t.Error("manager not bound to the organization")
	}
	if stored.PasswordHash == "" {
		t.Error("expected a temp password hash")
	}
	if len(stored.Permissions) != 2 {
		t.Errorf("permissions = %v, want the delegated pair", stored.Permissions)
	}
}

func TestCreate_RejectsNonDelegablePermission(t *testing.T) {
	h, fx := newTestHandler(t)
	router := managers.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreateNGO(ctx, "Careful Org")

	// An NGO admin holds no wildcard, so it cannot hand one out.
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/", map[string]any{
		"full_name":   "Over Manager",
		"email":       "over@example.org",
		"permissions": []string{"*"},
	}, testutil.NGOAdminUser(ngo.ID)))
	rec.AssertStatus(t, 400)

	// Managers cannot create managers.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/", map[string]any{
		"full_name": "Chain Manager", "email": "chain@example.org",
	}, testutil.ManagerUser(ngo.ID, "create")))
	rec.AssertStatus(t, 403)
}

func TestUpdatePermissions_ScopedToOwnOrg(t *testing.T) {
	h, fx := newTestHandler(t)
	router := managers.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreateNGO(ctx, "Perm Org")
	other := fx.CreateNGO(ctx, "Other Perm Org")
	manager := fx.CreateManager(ctx, "Adjustable", "adjust@example.org", ngo.ID, []string{"create"})

	// Another organization's admin cannot touch this manager.
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "PUT", "/"+manager.ID.Hex()+"/permissions",
		map[string]any{"permissions": []string{"update"}}, testutil.NGOAdminUser(other.ID)))
	rec.AssertStatus(t, 404)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "PUT", "/"+manager.ID.Hex()+"/permissions",
		map[string]any{"permissions": []string{"update", "approve"}}, testutil.NGOAdminUser(ngo.ID)))
	rec.AssertStatus(t, 200)

	stored, err := userstore.New(fx.DB()).GetManager(ctx, ngo.ID, manager.ID)
	if err != nil {
		t.Fatalf("GetManager: %v", err)
	}
	if len(stored.Permissions) != 2 {
		t.Errorf("permissions = %v, want [update approve]", stored.Permissions)
	}
}

func TestDelete_RemovesManagerOnly(t *testing.T) {
	h, fx := newTestHandler(t)
	router := managers.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreateNGO(ctx, "Remove Org")
	manager := fx.CreateManager(ctx, "Removable", "removable@example.org", ngo.ID, nil)
	admin := fx.CreateNGOAdmin(ctx, "Not Removable", "keep@example.org", ngo.ID)

	// Deleting an admin through the manager endpoint does not match.
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("DELETE", "/"+admin.ID.Hex(), testutil.NGOAdminUser(ngo.ID)))
	rec.AssertStatus(t, 404)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("DELETE", "/"+manager.ID.Hex(), testutil.NGOAdminUser(ngo.ID)))
	rec.AssertStatus(t, 200)

	if _, err := userstore.New(fx.DB()).GetManager(ctx, ngo.ID, manager.ID); err == nil {
		t.Error("expected the manager account to be gone")
	}
}

func TestList_ReturnsOrgManagers(t *testing.T) {
	h, fx := newTestHandler(t)
	router := managers.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreateNGO(ctx, "Roster Perm Org")
	other := fx.CreateNGO(ctx, "Foreign Org")
	fx.CreateManager(ctx, "Mine", "mine@example.org", ngo.ID, nil)
	fx.CreateManager(ctx, "Foreign", "foreign@example.org", other.ID, nil)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/", testutil.NGOAdminUser(ngo.ID)))
	rec.AssertStatus(t, 200)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	items, _ := data["items"].([]any)
	if len(items) != 1 {
		t.Errorf("managers = %d, want 1", len(items))
	}
}
