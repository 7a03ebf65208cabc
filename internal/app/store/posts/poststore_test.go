package poststore

import (
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nexushub/nexushub/internal/testutil"
)

func TestLike_ConcurrentLikesCommute(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	author := f.CreateMember(ctx, "Author", "author@test.com")
	post := f.CreatePost(ctx, "Concurrent likes", author.ID, nil)

	store := New(db)

	// N users like the same post at once. The pipeline update recomputes
	// like_count from liked_by in the same write, so interleaving order
	// cannot matter.
	const n = 8
	users := make([]primitive.ObjectID, n)
	for i := range users {
		users[i] = primitive.NewObjectID()
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, uid := range users {
		wg.Add(1)
		go func(uid primitive.ObjectID) {
			defer wg.Done()
			if _, err := store.Like(ctx, post.ID, uid); err != nil {
				errs <- err
			}
		}(uid)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Like failed: %v", err)
	}

	got, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LikeCount != n {
		t.Errorf("like_count = %d, want %d", got.LikeCount, n)
	}
	if len(got.LikedBy) != n {
		t.Errorf("liked_by has %d entries, want %d", len(got.LikedBy), n)
	}
}

func TestLike_RepeatDoesNotInflateCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	author := f.CreateMember(ctx, "Author", "author@test.com")
	liker := f.CreateMember(ctx, "Liker", "liker@test.com")
	post := f.CreatePost(ctx, "Double tap", author.ID, nil)

	store := New(db)

	for i := 0; i < 3; i++ {
		if _, err := store.Like(ctx, post.ID, liker.ID); err != nil {
			t.Fatalf("Like failed: %v", err)
		}
	}

	got, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LikeCount != 1 {
		t.Errorf("like_count = %d after repeated likes, want 1", got.LikeCount)
	}
}

func TestUnlike_CountFollowsSet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	author := f.CreateMember(ctx, "Author", "author@test.com")
	alice := f.CreateMember(ctx, "Alice", "alice@test.com")
	bob := f.CreateMember(ctx, "Bob", "bob@test.com")
	post := f.CreatePost(ctx, "Toggle", author.ID, nil)

	store := New(db)

	if _, err := store.Like(ctx, post.ID, alice.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if _, err := store.Like(ctx, post.ID, bob.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}

	updated, err := store.Unlike(ctx, post.ID, alice.ID)
	if err != nil {
		t.Fatalf("Unlike failed: %v", err)
	}
	if updated.LikeCount != 1 {
		t.Errorf("like_count = %d after unlike, want 1", updated.LikeCount)
	}
	if updated.LikedByUser(alice.ID) {
		t.Error("alice still in liked_by after unlike")
	}
	if !updated.LikedByUser(bob.ID) {
		t.Error("bob should remain in liked_by")
	}

	// Unliking a user who never liked is a clean no-op.
	updated, err = store.Unlike(ctx, post.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("no-op Unlike failed: %v", err)
	}
	if updated.LikeCount != 1 {
		t.Errorf("like_count = %d after no-op unlike, want 1", updated.LikeCount)
	}
}

func TestBumpCommentCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	author := f.CreateMember(ctx, "Author", "author@test.com")
	post := f.CreatePost(ctx, "Discussed", author.ID, nil)

	store := New(db)

	if err := store.BumpCommentCount(ctx, post.ID, 1); err != nil {
		t.Fatalf("BumpCommentCount failed: %v", err)
	}
	if err := store.BumpCommentCount(ctx, post.ID, 1); err != nil {
		t.Fatalf("BumpCommentCount failed: %v", err)
	}

	got, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CommentCount != 2 {
		t.Errorf("comment_count = %d, want 2", got.CommentCount)
	}
}

func TestListFeed_ScopesAndPaginates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	author := f.CreateMember(ctx, "Author", "author@test.com")
	myCommunity := primitive.NewObjectID()
	otherCommunity := primitive.NewObjectID()

	f.CreatePost(ctx, "global", author.ID, nil)
	f.CreatePost(ctx, "mine", author.ID, &myCommunity)
	f.CreatePost(ctx, "not mine", author.ID, &otherCommunity)

	store := New(db)

	posts, err := store.ListFeed(ctx, []primitive.ObjectID{myCommunity}, true, primitive.NilObjectID, 20)
	if err != nil {
		t.Fatalf("ListFeed failed: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("feed has %d posts, want 2 (global + own community)", len(posts))
	}
	for _, p := range posts {
		if p.Title == "not mine" {
			t.Error("feed leaked a post from a non-member community")
		}
	}
}
