package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, accessTTL time.Duration) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(testSecret, accessTTL, 24*time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return tm
}

func TestNewTokenManager_ShortSecret(t *testing.T) {
	if _, err := NewTokenManager("short", time.Minute, time.Hour, zap.NewNop()); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	tm := newTestManager(t, 15*time.Minute)
	token, err := tm.IssueAccessToken("user123", "ngo_admin", "ngo456")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	claims, err := tm.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "user123" {
		t.Errorf("subject = %q, want %q", claims.Subject, "user123")
	}
	if claims.Role != "ngo_admin" {
		t.Errorf("role = %q, want %q", claims.Role, "ngo_admin")
	}
	if claims.NGOID != "ngo456" {
		t.Errorf("ngo_id = %q, want %q", claims.NGOID, "ngo456")
	}
}

func TestAccessToken_Expired(t *testing.T) {
	tm := newTestManager(t, -time.Minute)
	token, err := tm.IssueAccessToken("user123", "donor", "")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := tm.ParseAccessToken(token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestAccessToken_Tampered(t *testing.T) {
	tm := newTestManager(t, 15*time.Minute)
	token, err := tm.IssueAccessToken("user123", "donor", "")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)
	if _, err := tm.ParseAccessToken(tampered); err == nil {
		t.Fatal("expected tampered token to fail verification")
	}
}

func TestAccessToken_WrongSecret(t *testing.T) {
	tm := newTestManager(t, 15*time.Minute)
	other, err := NewTokenManager("ffffffffffffffffffffffffffffffff", 15*time.Minute, time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	token, err := tm.IssueAccessToken("user123", "donor", "")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := other.ParseAccessToken(token); err == nil {
		t.Fatal("expected verification with a different secret to fail")
	}
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	tm := newTestManager(t, 15*time.Minute)
	token, err := tm.IssueRefreshToken("user123")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	id, err := tm.ParseRefreshToken(token)
	if err != nil {
		t.Fatalf("ParseRefreshToken: %v", err)
	}
	if id != "user123" {
		t.Errorf("subject = %q, want %q", id, "user123")
	}
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	// An access token must not pass as a refresh token: it lacks token_use.
	tm := newTestManager(t, 15*time.Minute)
	access, err := tm.IssueAccessToken("user123", "donor", "")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := tm.ParseRefreshToken(access); err == nil {
		t.Fatal("expected access token to fail refresh verification")
	}
}

type staticFetcher struct {
	user *TokenUser
	err  error
}

func (f staticFetcher) FetchUser(_ context.Context, _ string) (*TokenUser, error) {
	return f.user, f.err
}

func TestLoadBearerUser(t *testing.T) {
	tm := newTestManager(t, 15*time.Minute)
	tm.SetUserFetcher(staticFetcher{user: &TokenUser{ID: "user123", Role: "volunteer"}})

	var got *TokenUser
	handler := tm.LoadBearerUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		got = nil
		token, err := tm.IssueAccessToken("user123", "volunteer", "")
		if err != nil {
			t.Fatalf("IssueAccessToken: %v", err)
		}
		r := httptest.NewRequest("GET", "/me", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if got == nil || got.ID != "user123" {
			t.Errorf("context user = %+v, want user123", got)
		}
	})

	t.Run("no token passes through anonymously", func(t *testing.T) {
		got = nil
		r := httptest.NewRequest("GET", "/programs", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if got != nil {
			t.Errorf("anonymous request should carry no user, got %+v", got)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/me", nil)
		r.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("disabled account rejected", func(t *testing.T) {
		tmDisabled := newTestManager(t, 15*time.Minute)
		tmDisabled.SetUserFetcher(staticFetcher{err: ErrUserDisabled})
		h := tmDisabled.LoadBearerUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run for disabled account")
		}))
		token, err := tmDisabled.IssueAccessToken("user123", "volunteer", "")
		if err != nil {
			t.Fatalf("IssueAccessToken: %v", err)
		}
		r := httptest.NewRequest("GET", "/me", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	protected := RequireRole("ngo_admin", "super_admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("allowed role", func(t *testing.T) {
		r := WithTestUser(httptest.NewRequest("GET", "/managers", nil), &TokenUser{ID: "u1", Role: "ngo_admin"})
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		r := WithTestUser(httptest.NewRequest("GET", "/managers", nil), &TokenUser{ID: "u2", Role: "donor"})
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("not signed in", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/managers", nil)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}
