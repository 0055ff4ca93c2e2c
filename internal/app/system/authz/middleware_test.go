package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/authz"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(role string, perms ...string) *http.Request {
	user := &auth.TokenUser{
		ID:          "507f1f77bcf86cd799439011",
		Name:        "Test User",
		Email:       "test@example.com",
		Role:        role,
		Permissions: perms,
	}
	return auth.WithTestUser(httptest.NewRequest("GET", "/audit-log", nil), user)
}

func TestRequireMinLevel(t *testing.T) {
	guard := authz.RequireMinLevel(authz.RoleLevel(authz.RoleSuperAdmin))(okHandler())

	t.Run("anonymous gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, httptest.NewRequest("GET", "/audit-log", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("below threshold gets 403", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestAs(authz.RoleNGOAdmin))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("at threshold passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestAs(authz.RoleSuperAdmin))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("unknown role fails closed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestAs("board_member"))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestRequireMinLevel_ComposesWithFinerChecks(t *testing.T) {
	// The level gate runs first; a permission check behind it still
	// applies. Both must pass.
	inner := authz.RequirePermission(authz.ModuleManagers, authz.ActionCreate)(okHandler())
	guard := authz.RequireMinLevel(authz.RoleLevel(authz.RoleNGOManager))(inner)

	t.Run("level ok but no permission", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestAs(authz.RoleNGOManager))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("both pass", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestAs(authz.RoleNGOAdmin))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("permission alone does not lift the level gate", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestAs(authz.RoleVolunteer, authz.ActionCreate))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestRequirePermission_Middleware(t *testing.T) {
	guard := authz.RequirePermission(authz.ModuleDonations, authz.ActionCreate)(okHandler())

	t.Run("anonymous gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, httptest.NewRequest("POST", "/donations", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("role grant passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestAs(authz.RoleDonor))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("ungranted role gets 403", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestAs(authz.RoleVolunteer))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("delegated grant passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestAs(authz.RoleVolunteer, authz.ActionCreate))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
