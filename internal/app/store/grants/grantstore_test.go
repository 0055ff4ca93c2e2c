package grantstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	grantstore "github.com/sevahub/sevahub/internal/app/store/grants"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/sevahub/sevahub/internal/testutil"
)

func TestStore_RequestApproveDisburse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	decider := primitive.NewObjectID()

	g, err := store.Request(ctx, models.Grant{
		NGOID:       primitive.NewObjectID(),
		Purpose:     "Mobile medical van for rural outreach",
		Amount:      5000000,
		RequestedBy: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if g.Status != models.GrantStatusRequested {
		t.Errorf("expected status %q, got %q", models.GrantStatusRequested, g.Status)
	}

	// Disbursal requires prior approval.
	if err := store.Disburse(ctx, g.ID); err != grantstore.ErrInvalidTransition {
		t.Errorf("Disburse before approve: expected ErrInvalidTransition, got %v", err)
	}

	if err := store.Approve(ctx, g.ID, decider, "approved for Q3 budget"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.GrantStatusApproved {
		t.Errorf("expected status %q, got %q", models.GrantStatusApproved, got.Status)
	}
	if got.DecisionNote != "approved for Q3 budget" {
		t.Errorf("expected decision note recorded, got %q", got.DecisionNote)
	}
	if got.DecidedBy == nil || got.DecidedAt == nil {
		t.Error("expected DecidedBy and DecidedAt to be set")
	}

	// Approval is a one-time decision.
	if err := store.Reject(ctx, g.ID, decider, "changed my mind"); err != grantstore.ErrInvalidTransition {
		t.Errorf("Reject after approve: expected ErrInvalidTransition, got %v", err)
	}

	if err := store.Disburse(ctx, g.ID); err != nil {
		t.Fatalf("Disburse failed: %v", err)
	}
	got, err = store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.GrantStatusDisbursed {
		t.Errorf("expected status %q, got %q", models.GrantStatusDisbursed, got.Status)
	}
	if got.DisbursedAt == nil {
		t.Error("expected DisbursedAt to be set")
	}

	// Disbursal happens once.
	if err := store.Disburse(ctx, g.ID); err != grantstore.ErrInvalidTransition {
		t.Errorf("second Disburse: expected ErrInvalidTransition, got %v", err)
	}
}

func TestStore_Reject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := store.Request(ctx, models.Grant{
		NGOID:       primitive.NewObjectID(),
		Purpose:     "Unfundable request",
		Amount:      100,
		RequestedBy: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if err := store.Reject(ctx, g.ID, primitive.NewObjectID(), "outside funding scope"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.GrantStatusRejected {
		t.Errorf("expected status %q, got %q", models.GrantStatusRejected, got.Status)
	}

	// Rejected grants cannot be disbursed.
	if err := store.Disburse(ctx, g.ID); err != grantstore.ErrInvalidTransition {
		t.Errorf("Disburse after reject: expected ErrInvalidTransition, got %v", err)
	}
}

func TestStore_Lists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ngo := primitive.NewObjectID()
	requester := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		if _, err := store.Request(ctx, models.Grant{NGOID: ngo, Purpose: "p", Amount: 100, RequestedBy: requester}); err != nil {
			t.Fatalf("Request failed: %v", err)
		}
	}
	other, err := store.Request(ctx, models.Grant{NGOID: primitive.NewObjectID(), Purpose: "q", Amount: 200, RequestedBy: requester})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if err := store.Approve(ctx, other.ID, primitive.NewObjectID(), ""); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	mine, total, err := store.ListByNGO(ctx, ngo, "", 0, 10)
	if err != nil {
		t.Fatalf("ListByNGO failed: %v", err)
	}
	if total != 2 || len(mine) != 2 {
		t.Errorf("byNGO: got %d (total %d), want 2", len(mine), total)
	}

	requested, total, err := store.ListAll(ctx, models.GrantStatusRequested, 0, 10)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if total != 2 || len(requested) != 2 {
		t.Errorf("requested: got %d (total %d), want 2", len(requested), total)
	}
}
