// internal/app/features/auth/handler_test.go
package auth_test

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/features/auth"
	"github.com/sevahub/sevahub/internal/app/store/audit"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/auditlog"
	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/ratelimit"
	"github.com/sevahub/sevahub/internal/testutil"
)

func newTestHandler(t *testing.T) (*auth.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	tokens, err := sysauth.NewTokenManager("test-secret-test-secret-test-secret", 15*time.Minute, 24*time.Hour, logger)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "db", Admin: "db"})
	h := auth.NewHandler(db, tokens, ratelimit.NewLoginLimiter(), auditLogger, logger)
	return h, testutil.NewFixtures(t, db)
}

func TestRegister_CreatesAccountAndTokens(t *testing.T) {
	h, _ := newTestHandler(t)
	router := auth.Routes(h)

	req := testutil.NewJSONRequest(t, "POST", "/register", map[string]any{
		"full_name": "Asha Patel",
		"email":     "asha@example.org",
		"password":  "correct horse battery",
		"role":      "volunteer",
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, 201)
	env := rec.DecodeEnvelope(t)
	if env["success"] != true {
		t.Errorf("expected success envelope, got %v", env)
	}
	data, _ := env["data"].(map[string]any)
	tokens, _ := data["tokens"].(map[string]any)
	if tokens["access_token"] == "" || tokens["refresh_token"] == "" {
		t.Error("expected both tokens in response")
	}
	if tokens["token_type"] != "Bearer" {
		t.Errorf("token_type = %v, want Bearer", tokens["token_type"])
	}
	user, _ := data["user"].(map[string]any)
	if user["role"] != "volunteer" {
		t.Errorf("role = %v, want volunteer", user["role"])
	}
	if _, ok := user["password_hash"]; ok {
		t.Error("password hash must not appear in responses")
	}
}

func TestRegister_RejectsStaffRoles(t *testing.T) {
	h, _ := newTestHandler(t)
	router := auth.Routes(h)

	req := testutil.NewJSONRequest(t, "POST", "/register", map[string]any{
		"full_name": "Sneaky",
		"email":     "sneaky@example.org",
		"password":  "longenoughpass",
		"role":      "super_admin",
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, 400)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h, _ := newTestHandler(t)
	router := auth.Routes(h)

	body := map[string]any{
		"full_name": "First In",
		"email":     "taken@example.org",
		"password":  "longenoughpass",
		"role":      "donor",
	}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/register", body))
	rec.AssertStatus(t, 201)

	rec = testutil.NewRecorder()
	body["full_name"] = "Second In"
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/register", body))
	rec.AssertStatus(t, 409)
}

func TestLogin_SuccessAndWrongPassword(t *testing.T) {
	h, _ := newTestHandler(t)
	router := auth.Routes(h)

	reg := map[string]any{
		"full_name": "Login Tester",
		"email":     "login@example.org",
		"password":  "longenoughpass",
		"role":      "donor",
	}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/register", reg))
	rec.AssertStatus(t, 201)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/login", map[string]any{
		"email":    "Login@Example.org",
		"password": "longenoughpass",
	}))
	rec.AssertStatus(t, 200)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	if _, ok := data["tokens"].(map[string]any); !ok {
		t.Fatalf("expected tokens in login response, got %v", env)
	}

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/login", map[string]any{
		"email":    "login@example.org",
		"password": "not-the-password",
	}))
	rec.AssertStatus(t, 401)
	rec.AssertContains(t, "invalid email or password")
}

func TestLogin_UnknownEmailSameMessage(t *testing.T) {
	h, _ := newTestHandler(t)
	router := auth.Routes(h)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/login", map[string]any{
		"email":    "nobody@example.org",
		"password": "whatever123",
	}))
	rec.AssertStatus(t, 401)
	rec.AssertContains(t, "invalid email or password")
}

func TestLogin_DisabledAccount(t *testing.T) {
	h, fx := newTestHandler(t)
	router := auth.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := fx.CreateDisabledUser(ctx, "Disabled Tester", "disabled@example.org")
	hash, err := userstore.HashPassword("longenoughpass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := userstore.New(fx.DB()).SetPassword(ctx, user.ID, hash); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/login", map[string]any{
		"email":    user.Email,
		"password": "longenoughpass",
	}))
	rec.AssertStatus(t, 403)
}

func TestRefresh_RoundTrip(t *testing.T) {
	h, _ := newTestHandler(t)
	router := auth.Routes(h)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/register", map[string]any{
		"full_name": "Refresh Tester",
		"email":     "refresh@example.org",
		"password":  "longenoughpass",
		"role":      "citizen",
	}))
	rec.AssertStatus(t, 201)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	tokens, _ := data["tokens"].(map[string]any)
	refresh, _ := tokens["refresh_token"].(string)
	if refresh == "" {
		t.Fatal("no refresh token issued")
	}

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/refresh", map[string]any{
		"refresh_token": refresh,
	}))
	rec.AssertStatus(t, 200)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/refresh", map[string]any{
		"refresh_token": "not.a.token",
	}))
	rec.AssertStatus(t, 401)
}

func TestMe_RequiresAuth(t *testing.T) {
	h, _ := newTestHandler(t)
	router := auth.Routes(h)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/me"))
	rec.AssertStatus(t, 401)
}

func TestMe_ReturnsProfile(t *testing.T) {
	h, fx := newTestHandler(t)
	router := auth.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := fx.CreateUser(ctx, "Profile Tester", "profile@example.org", "volunteer", nil)
	req := testutil.NewAuthenticatedRequest("GET", "/me", testutil.TestUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "profile@example.org")
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	h, fx := newTestHandler(t)
	router := auth.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := fx.CreateUser(ctx, "Rotate Tester", "rotate@example.org", "donor", nil)
	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/change-password", map[string]any{
		"current_password": "wrong",
		"new_password":     "newlongenough",
	}, testutil.TestUser{ID: user.ID.Hex(), Role: user.Role})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, 401)
}

func TestChangePassword_Rotates(t *testing.T) {
	h, fx := newTestHandler(t)
	router := auth.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := fx.CreateUser(ctx, "Rotate OK", "rotateok@example.org", "donor", nil)
	users := userstore.New(fx.DB())
	hash, err := userstore.HashPassword("oldpassword1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := users.SetPassword(ctx, user.ID, hash); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/change-password", map[string]any{
		"current_password": "oldpassword1",
		"new_password":     "newpassword1",
	}, testutil.TestUser{ID: user.ID.Hex(), Role: user.Role})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, 200)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/login", map[string]any{
		"email":    user.Email,
		"password": "newpassword1",
	}))
	rec.AssertStatus(t, 200)
}
