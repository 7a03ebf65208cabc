package communitystore

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexushub/nexushub/internal/domain/models"
	"github.com/nexushub/nexushub/internal/testutil"
)

func TestAddMember_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	creator := f.CreateMember(ctx, "Creator", "creator@test.com")
	joiner := f.CreateMember(ctx, "Joiner", "joiner@test.com")
	community := f.CreateCommunity(ctx, "Gophers", models.PrivacyPublic, creator.ID)

	store := New(db)

	changed, err := store.AddMember(ctx, community.ID, joiner.ID)
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if !changed {
		t.Error("expected first add to change the member set")
	}

	// Repeating the add must not change anything.
	changed, err = store.AddMember(ctx, community.ID, joiner.ID)
	if err != nil {
		t.Fatalf("repeat AddMember failed: %v", err)
	}
	if changed {
		t.Error("expected repeat add to be a no-op")
	}

	got, err := store.GetByID(ctx, community.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	count := 0
	for _, id := range got.MemberIDs {
		if id == joiner.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("joiner appears %d times in member_ids, want 1", count)
	}
}

func TestApprovePending_MovesPendingToMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	creator := f.CreateMember(ctx, "Creator", "creator@test.com")
	applicant := f.CreateMember(ctx, "Applicant", "applicant@test.com")
	community := f.CreateCommunity(ctx, "Private Club", models.PrivacyPrivate, creator.ID)

	store := New(db)

	if _, err := store.AddPending(ctx, community.ID, applicant.ID); err != nil {
		t.Fatalf("AddPending failed: %v", err)
	}

	changed, err := store.ApprovePending(ctx, community.ID, applicant.ID)
	if err != nil {
		t.Fatalf("ApprovePending failed: %v", err)
	}
	if !changed {
		t.Fatal("expected approve to change the document")
	}

	got, err := store.GetByID(ctx, community.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.IsMember(applicant.ID) {
		t.Error("applicant not in member_ids after approve")
	}
	if got.IsPending(applicant.ID) {
		t.Error("applicant still in pending_member_ids after approve")
	}

	// A second approve for the same user matches nothing.
	changed, err = store.ApprovePending(ctx, community.ID, applicant.ID)
	if err != nil {
		t.Fatalf("repeat ApprovePending failed: %v", err)
	}
	if changed {
		t.Error("expected repeat approve to match nothing")
	}
}

func TestDenyPending_PullsWithoutAddingMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	creator := f.CreateMember(ctx, "Creator", "creator@test.com")
	applicant := f.CreateMember(ctx, "Applicant", "applicant@test.com")
	community := f.CreateCommunity(ctx, "Private Club", models.PrivacyPrivate, creator.ID)

	store := New(db)

	if _, err := store.AddPending(ctx, community.ID, applicant.ID); err != nil {
		t.Fatalf("AddPending failed: %v", err)
	}
	changed, err := store.DenyPending(ctx, community.ID, applicant.ID)
	if err != nil {
		t.Fatalf("DenyPending failed: %v", err)
	}
	if !changed {
		t.Fatal("expected deny to change the document")
	}

	got, err := store.GetByID(ctx, community.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsPending(applicant.ID) || got.IsMember(applicant.ID) {
		t.Error("denied applicant should be in neither pending nor members")
	}
}

func TestRemoveMember_CreatorCannotBeRemoved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	creator := f.CreateMember(ctx, "Creator", "creator@test.com")
	community := f.CreateCommunity(ctx, "Gophers", models.PrivacyPublic, creator.ID)

	store := New(db)

	changed, err := store.RemoveMember(ctx, community.ID, creator.ID)
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if changed {
		t.Error("creator removal must match nothing")
	}

	got, err := store.GetByID(ctx, community.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.IsMember(creator.ID) || !got.IsAdmin(creator.ID) {
		t.Error("creator must remain member and admin")
	}
}

func TestRemoveMember_AlsoPullsAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	creator := f.CreateMember(ctx, "Creator", "creator@test.com")
	other := f.CreateMember(ctx, "Other Admin", "other@test.com")
	community := f.CreateCommunity(ctx, "Gophers", models.PrivacyPublic, creator.ID)

	store := New(db)

	if _, err := store.AddMember(ctx, community.ID, other.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	// Promote to community admin directly.
	_, err := db.Collection("communities").UpdateByID(ctx, community.ID,
		bson.M{"$addToSet": bson.M{"admin_ids": other.ID}})
	if err != nil {
		t.Fatalf("failed to promote admin: %v", err)
	}

	changed, err := store.RemoveMember(ctx, community.ID, other.ID)
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if !changed {
		t.Fatal("expected removal to change the document")
	}

	got, err := store.GetByID(ctx, community.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsMember(other.ID) {
		t.Error("removed user still in member_ids")
	}
	if got.IsAdmin(other.ID) {
		t.Error("removed user still in admin_ids")
	}
}

func TestCreate_DuplicateNameRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The unique name_ci index is what enforces this in production.
	_, err := db.Collection("communities").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_ci", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}

	store := New(db)
	creator := primitive.NewObjectID()

	_, err = store.Create(ctx, models.Community{Name: "Gophers", CreatorID: creator})
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Same name with different casing folds to the same name_ci.
	_, err = store.Create(ctx, models.Community{Name: "GOPHERS", CreatorID: creator})
	if err != ErrDuplicateCommunityName {
		t.Errorf("expected ErrDuplicateCommunityName, got %v", err)
	}
}
