package memberstore_test

import (
	"testing"

	memberstore "github.com/dalemusser/projecthub/internal/app/store/members"
	"github.com/dalemusser/projecthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestAdd_SecondGroup_Rejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	profile := primitive.NewObjectID()
	groupA := primitive.NewObjectID()
	groupB := primitive.NewObjectID()

	if err := store.Add(ctx, groupA, profile, "CS"); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if err := store.Add(ctx, groupB, profile, "CS"); err != memberstore.ErrAlreadyInGroup {
		t.Errorf("expected ErrAlreadyInGroup, got %v", err)
	}

	gid, err := store.GroupIDFor(ctx, profile)
	if err != nil {
		t.Fatalf("GroupIDFor failed: %v", err)
	}
	if gid != groupA {
		t.Errorf("expected membership in the first group, got %v", gid)
	}
}

func TestGroupIDFor_NoMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GroupIDFor(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestCountOf(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if err := store.Add(ctx, group, primitive.NewObjectID(), "CS"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	n, err := store.CountOf(ctx, group)
	if err != nil {
		t.Fatalf("CountOf failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 members, got %d", n)
	}
}
