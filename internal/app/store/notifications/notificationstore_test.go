package notificationstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	notificationstore "github.com/sevahub/sevahub/internal/app/store/notifications"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/sevahub/sevahub/internal/testutil"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()

	created, err := store.Create(ctx, models.Notification{
		UserID:  user,
		Type:    models.NotifyDonationReceived,
		Title:   "New donation",
		Message: "You received a donation of ₹500.",
		Data:    map[string]string{"receipt": "SEVA-TEST-1"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Read {
		t.Error("expected new notification unread")
	}

	list, total, err := store.ListByUser(ctx, user, false, 0, 10)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("got %d notifications (total %d), want 1", len(list), total)
	}
	if list[0].Data["receipt"] != "SEVA-TEST-1" {
		t.Errorf("expected data payload preserved, got %v", list[0].Data)
	}
}

func TestStore_CreateMany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	users := []primitive.ObjectID{
		primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(),
	}
	err := store.CreateMany(ctx, users, models.Notification{
		Type:  models.NotifyAnnouncement,
		Title: "New announcement",
	})
	if err != nil {
		t.Fatalf("CreateMany failed: %v", err)
	}

	for _, uid := range users {
		n, err := store.UnreadCount(ctx, uid)
		if err != nil {
			t.Fatalf("UnreadCount failed: %v", err)
		}
		if n != 1 {
			t.Errorf("user %s: unread got %d, want 1", uid.Hex(), n)
		}
	}

	// Empty fan-out is a no-op, not an error.
	if err := store.CreateMany(ctx, nil, models.Notification{Type: models.NotifyAnnouncement, Title: "x"}); err != nil {
		t.Errorf("CreateMany with no users: %v", err)
	}
}

func TestStore_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	n, err := store.Create(ctx, models.Notification{
		UserID: user, Type: models.NotifyKYCDecision, Title: "KYC verified",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Another user cannot mark someone else's notification.
	if err := store.MarkRead(ctx, n.ID, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("foreign MarkRead: expected ErrNoDocuments, got %v", err)
	}

	if err := store.MarkRead(ctx, n.ID, user); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	count, err := store.UnreadCount(ctx, user)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("unread after MarkRead: got %d, want 0", count)
	}

	unread, total, err := store.ListByUser(ctx, user, true, 0, 10)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if total != 0 || len(unread) != 0 {
		t.Errorf("unreadOnly list: got %d (total %d), want 0", len(unread), total)
	}
}

func TestStore_MarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, models.Notification{
			UserID: user, Type: models.NotifyAnnouncement, Title: "n",
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	changed, err := store.MarkAllRead(ctx, user)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if changed != 3 {
		t.Errorf("changed: got %d, want 3", changed)
	}

	// Idempotent: nothing left to flip.
	changed, err = store.MarkAllRead(ctx, user)
	if err != nil {
		t.Fatalf("second MarkAllRead failed: %v", err)
	}
	if changed != 0 {
		t.Errorf("second changed: got %d, want 0", changed)
	}
}
