// internal/app/features/ngos/handler_test.go
package ngos_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/features/ngos"
	"github.com/sevahub/sevahub/internal/app/store/audit"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/mailer"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/sevahub/sevahub/internal/testutil"
)

func newTestHandler(t *testing.T) (*ngos.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "db", Admin: "db"})
	mail := mailer.New(mailer.Config{}, logger)
	h := ngos.NewHandler(db, nil, mail, events.NewHub(), auditLogger, "SevaHub", logger)
	return h, testutil.NewFixtures(t, db)
}

func TestRegister_BindsAdminAndStartsPending(t *testing.T) {
	h, fx := newTestHandler(t)
	router := ngos.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := fx.CreateUser(ctx, "Founder", "founder@example.org", "citizen", nil)

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/", map[string]any{
		"name":          "Hope Works Trust",
		"contact_email": "hello@hopeworks.org",
		"city":          "Pune",
	}, testutil.TestUser{ID: user.ID.Hex(), Role: user.Role})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, 201)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	ngo, _ := data["ngo"].(map[string]any)
	if ngo["kyc_status"] != models.KYCStatusPending {
		t.Errorf("kyc_status = %v, want pending", ngo["kyc_status"])
	}
	if slug, ok := ngo["slug"].(string); ok && slug != "" {
		t.Errorf("slug must not be assigned before verification, got %q", slug)
	}

	reloaded, err := userstore.New(fx.DB()).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Role != authz.RoleNGOAdmin {
		t.Errorf("registering user role = %q, want ngo_admin", reloaded.Role)
	}
	if reloaded.NGOID == nil {
		t.Error("registering user not bound to the organization")
	}
}

func TestRegister_StaffCannotRegisterSecondOrg(t *testing.T) {
	h, fx := newTestHandler(t)
	router := ngos.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	existing := fx.CreateNGO(ctx, "Existing Org")
	admin := fx.CreateNGOAdmin(ctx, "Busy Admin", "busy@example.org", existing.ID)

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/", map[string]any{
		"name":          "Second Org",
		"contact_email": "second@example.org",
	}, testutil.TestUser{ID: admin.ID.Hex(), Role: admin.Role, NGOID: existing.ID.Hex()})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, 409)
}

func TestList_SuperAdminOnly(t *testing.T) {
	h, fx := newTestHandler(t)
	router := ngos.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateNGO(ctx, "Listed Org")
	ngo2 := fx.CreatePendingNGO(ctx, "Pending Org")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/", testutil.DonorUser()))
	rec.AssertStatus(t, 403)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/?kyc_status=pending", testutil.SuperAdminUser()))
	rec.AssertStatus(t, 200)
	rec.AssertContains(t, ngo2.Name)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	meta, _ := data["pagination"].(map[string]any)
	if meta["totalItems"] != float64(1) {
		t.Errorf("totalItems = %v, want 1", meta["totalItems"])
	}
}

func TestGet_ScopedToOwnOrg(t *testing.T) {
	h, fx := newTestHandler(t)
	router := ngos.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	mine := fx.CreateNGO(ctx, "My Org")
	other := fx.CreateNGO(ctx, "Other Org")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/"+other.ID.Hex(), testutil.NGOAdminUser(mine.ID)))
	rec.AssertStatus(t, 403)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/"+mine.ID.Hex(), testutil.NGOAdminUser(mine.ID)))
	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "My Org")

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/"+other.ID.Hex(), testutil.SuperAdminUser()))
	rec.AssertStatus(t, 200)
}

func TestUpdate_RequiresAuthoritativeStaffBinding(t *testing.T) {
	h, fx := newTestHandler(t)
	router := ngos.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreateNGO(ctx, "Editable Org")
	admin := fx.CreateNGOAdmin(ctx, "Org Admin", "orgadmin@example.org", ngo.ID)

	// A token claiming staff of the org without a matching user record is
	// refused.
	forged := testutil.NGOAdminUser(ngo.ID)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "PUT", "/"+ngo.ID.Hex(), map[string]any{
		"city": "Forged",
	}, forged))
	rec.AssertStatus(t, 403)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "PUT", "/"+ngo.ID.Hex(), map[string]any{
		"city": "Nagpur",
	}, testutil.TestUser{ID: admin.ID.Hex(), Role: admin.Role, NGOID: ngo.ID.Hex()}))
	rec.AssertStatus(t, 200)

	reloaded, err := ngostore.New(fx.DB()).GetByID(ctx, ngo.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.City != "Nagpur" {
		t.Errorf("city = %q, want Nagpur", reloaded.City)
	}
}

func TestUpdateHomepage_SanitizesHTML(t *testing.T) {
	h, fx := newTestHandler(t)
	router := ngos.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreateNGO(ctx, "Content Org")
	admin := fx.CreateNGOAdmin(ctx, "Content Admin", "content@example.org", ngo.ID)
	user := testutil.TestUser{ID: admin.ID.Hex(), Role: admin.Role, NGOID: ngo.ID.Hex()}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "PUT", "/"+ngo.ID.Hex()+"/content", map[string]any{
		"headline": "Feeding <b>families</b>",
		"about":    `<p>We help.</p><script>alert("x")</script>`,
	}, user))
	rec.AssertStatus(t, 200)

	reloaded, err := ngostore.New(fx.DB()).GetByID(ctx, ngo.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Homepage == nil {
		t.Fatal("homepage not stored")
	}
	if reloaded.Homepage.Headline != "Feeding families" {
		t.Errorf("headline = %q, want tags stripped", reloaded.Homepage.Headline)
	}
	if reloaded.Homepage.About != "<p>We help.</p>" {
		t.Errorf("about = %q, want script removed", reloaded.Homepage.About)
	}
}

func TestKYCDecisions(t *testing.T) {
	h, fx := newTestHandler(t)
	router := ngos.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreatePendingNGO(ctx, "Applicant Org")
	fx.CreateNGOAdmin(ctx, "Applicant Admin", "applicant@example.org", ngo.ID)

	store := ngostore.New(fx.DB())
	if err := store.SubmitDocuments(ctx, ngo.ID, []models.KYCDocument{{
		Type: models.DocPANCard, FilePath: "kyc/2026/08/test.pdf", FileName: "pan.pdf",
	}}); err != nil {
		t.Fatalf("SubmitDocuments: %v", err)
	}

	// Staff of the org cannot decide their own verification.
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+ngo.ID.Hex()+"/kyc/verify", nil, testutil.NGOAdminUser(ngo.ID)))
	rec.AssertStatus(t, 403)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+ngo.ID.Hex()+"/kyc/verify", nil, testutil.SuperAdminUser()))
	rec.AssertStatus(t, 200)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	verified, _ := data["ngo"].(map[string]any)
	if verified["kyc_status"] != models.KYCStatusVerified {
		t.Errorf("kyc_status = %v, want verified", verified["kyc_status"])
	}
	if slug, _ := verified["slug"].(string); slug == "" {
		t.Error("verification must assign the public slug")
	}

	// Deciding twice conflicts.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+ngo.ID.Hex()+"/kyc/verify", nil, testutil.SuperAdminUser()))
	rec.AssertStatus(t, 409)
}

func TestRejectKYC_RequiresReason(t *testing.T) {
	h, fx := newTestHandler(t)
	router := ngos.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreatePendingNGO(ctx, "Rejectable Org")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+ngo.ID.Hex()+"/kyc/reject", map[string]any{
		"reason": "  ",
	}, testutil.SuperAdminUser()))
	rec.AssertStatus(t, 400)
}

func TestPublicPage(t *testing.T) {
	h, fx := newTestHandler(t)
	public := ngos.PublicRoutes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ngo := fx.CreateNGO(ctx, "Visible Org")

	rec := testutil.NewRecorder()
	public.ServeHTTP(rec, testutil.NewRequest("GET", "/"+ngo.Slug))
	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "Visible Org")

	rec = testutil.NewRecorder()
	public.ServeHTTP(rec, testutil.NewRequest("GET", "/no-such-org-aaaaaa"))
	rec.AssertStatus(t, 404)
}
