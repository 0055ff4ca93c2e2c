// internal/testutil/http.go
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sevahub/sevahub/internal/app/system/auth"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID          string
	Name        string
	Email       string
	Role        string
	NGOID       string
	Permissions []string
}

// SuperAdminUser returns a TestUser with the super_admin role.
func SuperAdminUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Superadmin",
		Email: "superadmin@test.com",
		Role:  "super_admin",
	}
}

// NGOAdminUser returns a TestUser with the ngo_admin role in the given NGO.
func NGOAdminUser(ngoID primitive.ObjectID) TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test NGO Admin",
		Email: "ngoadmin@test.com",
		Role:  "ngo_admin",
		NGOID: ngoID.Hex(),
	}
}

// ManagerUser returns a TestUser with the ngo_manager role and the given
// delegated permissions.
func ManagerUser(ngoID primitive.ObjectID, perms ...string) TestUser {
	return TestUser{
		ID:          primitive.NewObjectID().Hex(),
		Name:        "Test Manager",
		Email:       "manager@test.com",
		Role:        "ngo_manager",
		NGOID:       ngoID.Hex(),
		Permissions: perms,
	}
}

// VolunteerUser returns a TestUser with the volunteer role.
func VolunteerUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Volunteer",
		Email: "volunteer@test.com",
		Role:  "volunteer",
	}
}

// DonorUser returns a TestUser with the donor role.
func DonorUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Donor",
		Email: "donor@test.com",
		Role:  "donor",
	}
}

// CitizenUser returns a TestUser with the citizen role.
func CitizenUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Citizen",
		Email: "citizen@test.com",
		Role:  "citizen",
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the bearer-token middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	tokenUser := &auth.TokenUser{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		NGOID:       user.NGOID,
		Permissions: user.Permissions,
	}
	return auth.WithTestUser(r, tokenUser)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request with a JSON body.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}

// NewAuthenticatedJSONRequest creates a JSON request with a user in context.
func NewAuthenticatedJSONRequest(t *testing.T, method, target string, body any, user TestUser) *http.Request {
	t.Helper()
	return WithUser(NewJSONRequest(t, method, target, body), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// DecodeEnvelope decodes the standard response envelope from the body.
func (r *ResponseRecorder) DecodeEnvelope(t *testing.T) map[string]any {
	t.Helper()
	var env map[string]any
	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode response envelope: %v (body %q)", err, body)
	}
	return env
}
