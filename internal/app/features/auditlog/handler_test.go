// internal/app/features/auditlog/handler_test.go
package auditlog_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/features/auditlog"
	"github.com/sevahub/sevahub/internal/app/store/audit"
	"github.com/sevahub/sevahub/internal/testutil"
)

func newTestHandler(t *testing.T) (*auditlog.Handler, *audit.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return auditlog.NewHandler(db, zap.NewNop()), audit.New(db)
}

func seedEvent(t *testing.T, store *audit.Store, ev audit.Event) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := store.Log(ctx, ev); err != nil {
		t.Fatalf("seed audit event: %v", err)
	}
}

func TestList_SuperAdminOnly(t *testing.T) {
	h, _ := newTestHandler(t)
	router := auditlog.Routes(h)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/"))
	rec.AssertStatus(t, 401)

	rec = testutil.NewRecorder()
	ngoID := primitive.NewObjectID()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/", testutil.NGOAdminUser(ngoID)))
	rec.AssertStatus(t, 403)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	h, store := newTestHandler(t)
	router := auditlog.Routes(h)

	ngoID := primitive.NewObjectID()
	actorID := primitive.NewObjectID()
	seedEvent(t, store, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventKYCVerified,
		NGOID:     &ngoID,
		ActorID:   &actorID,
		Entity:    "ngo",
		Success:   true,
	})
	seedEvent(t, store, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventGrantApproved,
		Entity:    "grant",
		Success:   true,
	})
	seedEvent(t, store, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: "login_failed",
		Success:   false,
	})

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/", testutil.SuperAdminUser()))
	rec.AssertStatus(t, 200)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	if items, _ := data["items"].([]any); len(items) != 3 {
		t.Errorf("unfiltered items = %d, want 3", len(items))
	}

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/?category=admin&ngo_id="+ngoID.Hex(), testutil.SuperAdminUser()))
	rec.AssertStatus(t, 200)
	env = rec.DecodeEnvelope(t)
	data, _ = env["data"].(map[string]any)
	items, _ := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("filtered items = %d, want 1", len(items))
	}
	entry, _ := items[0].(map[string]any)
	if entry["event_type"] != audit.EventKYCVerified {
		t.Errorf("event_type = %v", entry["event_type"])
	}
	if entry["actor_id"] != actorID.Hex() {
		t.Errorf("actor_id = %v", entry["actor_id"])
	}
}

func TestList_TimeWindow(t *testing.T) {
	h, store := newTestHandler(t)
	router := auditlog.Routes(h)

	old := time.Now().UTC().Add(-48 * time.Hour)
	seedEvent(t, store, audit.Event{Category: audit.CategoryAdmin, EventType: audit.EventProgramCreated, CreatedAt: old, Success: true})
	seedEvent(t, store, audit.Event{Category: audit.CategoryAdmin, EventType: audit.EventProgramUpdated, Success: true})

	start := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/?start="+start, testutil.SuperAdminUser()))
	rec.AssertStatus(t, 200)
	env := rec.DecodeEnvelope(t)
	data, _ := env["data"].(map[string]any)
	items, _ := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("windowed items = %d, want 1", len(items))
	}

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/?start=yesterday", testutil.SuperAdminUser()))
	rec.AssertStatus(t, 400)
}
