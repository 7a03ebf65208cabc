package notificationstore

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nexushub/nexushub/internal/domain/models"
	"github.com/nexushub/nexushub/internal/testutil"
)

func TestMarkRead_ScopedToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	n, err := store.Insert(ctx, models.Notification{
		UserID: owner,
		Type:   models.NotifyNewComment,
		Title:  "New comment on your post",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	matched, err := store.MarkRead(ctx, n.ID, stranger)
	if err != nil {
		t.Fatalf("MarkRead stranger: %v", err)
	}
	if matched {
		t.Fatal("expected MarkRead with wrong owner to match nothing")
	}

	matched, err = store.MarkRead(ctx, n.ID, owner)
	if err != nil {
		t.Fatalf("MarkRead owner: %v", err)
	}
	if !matched {
		t.Fatal("expected MarkRead with owner to match")
	}
}

func TestDeleteReadBefore_KeepsUnreadAndRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	old := time.Now().UTC().Add(-60 * 24 * time.Hour)

	// Old and read: prunable.
	oldRead := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		Type:      models.NotifyJoinApproved,
		Title:     "old read",
		IsRead:    true,
		CreatedAt: old,
	}
	// Old but unread: kept.
	oldUnread := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		Type:      models.NotifyJoinApproved,
		Title:     "old unread",
		IsRead:    false,
		CreatedAt: old,
	}
	coll := db.Collection("notifications")
	if _, err := coll.InsertOne(ctx, oldRead); err != nil {
		t.Fatalf("insert old read: %v", err)
	}
	if _, err := coll.InsertOne(ctx, oldUnread); err != nil {
		t.Fatalf("insert old unread: %v", err)
	}

	// Recent and read: kept.
	recent, err := store.Insert(ctx, models.Notification{
		UserID: owner,
		Type:   models.NotifyNewComment,
		Title:  "recent",
	})
	if err != nil {
		t.Fatalf("Insert recent: %v", err)
	}
	if _, err := store.MarkRead(ctx, recent.ID, owner); err != nil {
		t.Fatalf("MarkRead recent: %v", err)
	}

	cutoff := time.Now().UTC().Add(-30 * 24 * time.Hour)
	deleted, err := store.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("DeleteReadBefore: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 pruned notification, got %d", deleted)
	}

	remaining, err := coll.CountDocuments(ctx, bson.M{"user_id": owner})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("expected old-unread and recent to survive, got %d docs", remaining)
	}
}
