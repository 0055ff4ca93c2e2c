// internal/app/features/notifications/handler_test.go
package notifications_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/features/notifications"
	notificationstore "github.com/sevahub/sevahub/internal/app/store/notifications"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/sevahub/sevahub/internal/testutil"
)

func newTestHandler(t *testing.T) (*notifications.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return notifications.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestFeed_OwnNotificationsOnly(t *testing.T) {
	h, fx := newTestHandler(t)
	router := notifications.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := fx.CreateUser(ctx, "Reader", "reader@example.org", "donor", nil)
	other := fx.CreateUser(ctx, "Other Reader", "other-reader@example.org", "donor", nil)

	store := notificationstore.New(fx.DB())
	mine, err := store.Create(ctx, models.Notification{
		UserID: user.ID, Type: models.NotifyDonationReceived, Title: "Mine", Message: "for me",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	theirs, err := store.Create(ctx, models.Notification{
		UserID: other.ID, Type: models.NotifyDonationReceived, Title: "Theirs", Message: "not for me",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	me := testutil.TestUser{ID: user.ID.Hex(), Role: user.Role}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/", me))
	rec.AssertStatus(t, 200)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	items, _ := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("feed = %d items, want 1", len(items))
	}
	if data["unread"] != float64(1) {
		t.Errorf("unread = %v, want 1", data["unread"])
	}

	// Marking someone else's notification fails; it stays unread.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+theirs.ID.Hex()+"/read", nil, me))
	rec.AssertStatus(t, 404)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/"+mine.ID.Hex()+"/read", nil, me))
	rec.AssertStatus(t, 200)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/unread", me))
	rec.AssertStatus(t, 200)
	env = rec.DecodeEnvelope(t)
	data, _ = env["data"].(map[string]any)
	if data["unread"] != float64(0) {
		t.Errorf("unread = %v, want 0 after marking read", data["unread"])
	}
}

func TestFeed_UnreadOnlyAndMarkAll(t *testing.T) {
	h, fx := newTestHandler(t)
	router := notifications.Routes(h)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := fx.CreateUser(ctx, "Bulk Reader", "bulk@example.org", "volunteer", nil)
	me := testutil.TestUser{ID: user.ID.Hex(), Role: user.Role}

	store := notificationstore.New(fx.DB())
	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, models.Notification{
			UserID: user.ID, Type: models.NotifyAnnouncement, Title: "N", Message: "m",
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	read, err := store.Create(ctx, models.Notification{
		UserID: user.ID, Type: models.NotifyAnnouncement, Title: "Seen", Message: "m",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.MarkRead(ctx, read.ID, user.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/?unread_only=true", me))
	rec.AssertStatus(t, 200)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	items, _ := data["items"].([]any)
	if len(items) != 3 {
		t.Errorf("unread feed = %d items, want 3", len(items))
	}

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(t, "POST", "/read-all", nil, me))
	rec.AssertStatus(t, 200)
	env = rec.DecodeEnvelope(t)
	data, _ = env["data"].(map[string]any)
	if data["updated"] != float64(3) {
		t.Errorf("updated = %v, want 3", data["updated"])
	}
}

func TestFeed_RequiresAuth(t *testing.T) {
	h, _ := newTestHandler(t)
	router := notifications.Routes(h)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/"))
	rec.AssertStatus(t, 401)
}
