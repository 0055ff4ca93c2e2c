package certificatestore_test

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	certificatestore "github.com/sevahub/sevahub/internal/app/store/certificates"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/sevahub/sevahub/internal/testutil"
)

func TestStore_IssueAndVerify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := certificatestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	issued, err := store.Issue(ctx, models.Certificate{
		NGOID:    primitive.NewObjectID(),
		UserID:   primitive.NewObjectID(),
		Type:     models.CertificateVolunteering,
		Title:    "Certificate of Volunteering",
		Remarks:  "120 hours with the flood relief team",
		IssuedBy: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if !strings.HasPrefix(issued.Serial, "CERT-") {
		t.Errorf("unexpected serial %q", issued.Serial)
	}
	if issued.IssuedAt.IsZero() {
		t.Error("expected IssuedAt to be set")
	}

	// Public verification by serial.
	found, err := store.GetBySerial(ctx, issued.Serial)
	if err != nil {
		t.Fatalf("GetBySerial failed: %v", err)
	}
	if found.ID != issued.ID {
		t.Error("GetBySerial returned wrong certificate")
	}

	if _, err := store.GetBySerial(ctx, "CERT-2026-BOGUS"); err != mongo.ErrNoDocuments {
		t.Errorf("bogus serial: expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_Issue_SerialsUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := certificatestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		c, err := store.Issue(ctx, models.Certificate{
			NGOID:    primitive.NewObjectID(),
			UserID:   primitive.NewObjectID(),
			Type:     models.CertificateAppreciation,
			Title:    "Thanks",
			IssuedBy: primitive.NewObjectID(),
		})
		if err != nil {
			t.Fatalf("Issue %d failed: %v", i, err)
		}
		if seen[c.Serial] {
			t.Fatalf("duplicate serial %q", c.Serial)
		}
		seen[c.Serial] = true
	}
}

func TestStore_Lists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := certificatestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ngo := primitive.NewObjectID()
	user := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		if _, err := store.Issue(ctx, models.Certificate{
			NGOID: ngo, UserID: user, Type: models.CertificateDonation,
			Title: "Donor Recognition", IssuedBy: primitive.NewObjectID(),
		}); err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
	}
	if _, err := store.Issue(ctx, models.Certificate{
		NGOID: ngo, UserID: primitive.NewObjectID(), Type: models.CertificateDonation,
		Title: "Donor Recognition", IssuedBy: primitive.NewObjectID(),
	}); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	byUser, total, err := store.ListByUser(ctx, user, 0, 10)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if total != 2 || len(byUser) != 2 {
		t.Errorf("byUser: got %d (total %d), want 2", len(byUser), total)
	}

	byNGO, total, err := store.ListByNGO(ctx, ngo, 0, 10)
	if err != nil {
		t.Fatalf("ListByNGO failed: %v", err)
	}
	if total != 3 || len(byNGO) != 3 {
		t.Errorf("byNGO: got %d (total %d), want 3", len(byNGO), total)
	}
}
