// internal/app/features/grants/handler_test.go
package grants_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/features/grants"
	"github.com/sevahub/sevahub/internal/app/store/audit"
	grantstore "github.com/sevahub/sevahub/internal/app/store/grants"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/sevahub/sevahub/internal/testutil"
)

func newTestHandler(t *testing.T) (*grants.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "db", Admin: "db"})
	return grants.NewHandler(db, events.NewHub(), auditLogger, logger), testutil.NewFixtures(t, db)
}

func TestRequest_VerifiedOrgOnly(t *testing.T) {
	h, fx := newTestHandler(t)
	router := grants.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	verified := fx.CreateNGO(ctx, "Funded Org")
	pending := fx.CreatePendingNGO(ctx, "Unfunded Org")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/", map[string]any{
		"purpose": "School supplies for 200 children",
		"amount":  5000000,
	}, testutil.NGOAdminUser(pending.ID)))
	rec.AssertStatus(t, 400)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/", map[string]any{
		"purpose": "School supplies for 200 children",
		"amount":  5000000,
	}, testutil.NGOAdminUser(verified.ID)))
	rec.AssertStatus(t, 201)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	grant, _ := data["grant"].(map[string]any)
	if grant["status"] != models.GrantStatusRequested {
		t.Errorf("status = %v, want requested", grant["status"])
	}
}

func TestRequest_Validation(t *testing.T) {
	h, fx := newTestHandler(t)
	router := grants.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreateNGO(ctx, "Validation Org")
	admin := testutil.NGOAdminUser(ngo.ID)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/", map[string]any{
		"purpose": "  ", "amount": 1000,
	}, admin))
	rec.AssertStatus(t, 400)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/", map[string]any{
		"purpose": "Kitchen upgrade", "amount": 0,
	}, admin))
	rec.AssertStatus(t, 400)

	// Volunteers have no grants access at all.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/", map[string]any{
		"purpose": "Kitchen upgrade", "amount": 1000,
	}, testutil.VolunteerUser()))
	rec.AssertStatus(t, 403)
}

func TestDecide_SuperAdminLifecycle(t *testing.T) {
	h, fx := newTestHandler(t)
	router := grants.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreateNGO(ctx, "Lifecycle Org")
	admin := fx.CreateNGOAdmin(ctx, "Grant Admin", "gadmin@example.org", ngo.ID)

	store := grantstore.New(fx.DB())
	grant, err := store.Request(ctx, models.Grant{
		NGOID: ngo.ID, Purpose: "Water filters", Amount: 200000, RequestedBy: admin.ID,
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	// NGO staff cannot decide their own request.
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+grant.ID.Hex()+"/approve", map[string]any{}, testutil.NGOAdminUser(ngo.ID)))
	rec.AssertStatus(t, 403)

	// Disbursing before approval conflicts.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+grant.ID.Hex()+"/disburse", nil, testutil.SuperAdminUser()))
	rec.AssertStatus(t, 409)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+grant.ID.Hex()+"/approve", map[string]any{"note": "Approved for Q4"}, testutil.SuperAdminUser()))
	rec.AssertStatus(t, 200)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+grant.ID.Hex()+"/disburse", nil, testutil.SuperAdminUser()))
	rec.AssertStatus(t, 200)

	reloaded, err := store.GetByID(ctx, grant.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Status != models.GrantStatusDisbursed {
		t.Errorf("status = %q, want disbursed", reloaded.Status)
	}
	if reloaded.DisbursedAt == nil {
		t.Error("expected disbursed_at to be set")
	}

	// The organization's admins were notified at each step.
	count, err := fx.DB().Collection("notifications").CountDocuments(ctx, map[string]any{"user_id": admin.ID})
	if err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if count != 2 {
		t.Errorf("admin notifications = %d, want 2", count)
	}
}

func TestReject_RequiresNote(t *testing.T) {
	h, fx := newTestHandler(t)
	router := grants.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreateNGO(ctx, "Note Org")
	admin := fx.CreateNGOAdmin(ctx, "Note Admin", "nadmin@example.org", ngo.ID)

	grant, err := grantstore.New(fx.DB()).Request(ctx, models.Grant{
		NGOID: ngo.ID, Purpose: "Generators", Amount: 900000, RequestedBy: admin.ID,
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+grant.ID.Hex()+"/reject", map[string]any{"note": " "}, testutil.SuperAdminUser()))
	rec.AssertStatus(t, 400)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+grant.ID.Hex()+"/reject", map[string]any{"note": "Insufficient documentation"}, testutil.SuperAdminUser()))
	rec.AssertStatus(t, 200)

	reloaded, err := grantstore.New(fx.DB()).GetByID(ctx, grant.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Status != models.GrantStatusRejected {
		t.Errorf("status = %q, want rejected", reloaded.Status)
	}
	if reloaded.DecisionNote != "Insufficient documentation" {
		t.Errorf("decision note = %q", reloaded.DecisionNote)
	}
}

func TestLists_Scoping(t *testing.T) {
	h, fx := newTestHandler(t)
	router := grants.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	first := fx.CreateNGO(ctx, "First Grant Org")
	second := fx.CreateNGO(ctx, "Second Grant Org")
	firstAdmin := fx.CreateNGOAdmin(ctx, "First Admin", "first@example.org", first.ID)
	secondAdmin := fx.CreateNGOAdmin(ctx, "Second Admin", "second@example.org", second.ID)

	store := grantstore.New(fx.DB())
	if _, err := store.Request(ctx, models.Grant{NGOID: first.ID, Purpose: "A", Amount: 1000, RequestedBy: firstAdmin.ID}); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := store.Request(ctx, models.Grant{NGOID: second.ID, Purpose: "B", Amount: 2000, RequestedBy: secondAdmin.ID}); err != nil {
		t.Fatalf("request: %v", err)
	}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/mine", testutil.NGOAdminUser(first.ID)))
	rec.AssertStatus(t, 200)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	items, _ := data["items"].([]any)
	if len(items) != 1 {
		t.Errorf("own grants = %d, want 1", len(items))
	}

	// The platform-wide list is superadmin only.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/", testutil.NGOAdminUser(first.ID)))
	rec.AssertStatus(t, 403)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/?status=requested", testutil.SuperAdminUser()))
	rec.AssertStatus(t, 200)
	env = rec.DecodeEnvelope(t)
	data, _ = env["data"].(map[string]any)
	items, _ = data["items"].([]any)
	if len(items) != 2 {
		t.Errorf("all grants = %d, want 2", len(items))
	}
}
