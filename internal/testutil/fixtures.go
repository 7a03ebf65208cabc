package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nexushub/nexushub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name, email, and role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:                primitive.NewObjectID(),
		FullName:          fullName,
		FullNameCI:        text.Fold(fullName),
		Email:             email,
		EmailCI:           text.Fold(email),
		AuthMethod:        "password",
		Role:              role,
		CommunityIDs:      []primitive.ObjectID{},
		BookmarkedPostIDs: []primitive.ObjectID{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateMember creates a test user with the member role.
func (f *Fixtures) CreateMember(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "member")
}

// CreateModerator creates a test user with the moderator role.
func (f *Fixtures) CreateModerator(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "moderator")
}

// CreateAdmin creates a test user with the admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "admin")
}

// CreateCommunity creates a test community owned by creatorID. The creator
// is seeded as both member and admin, matching what the community store
// guarantees, and the membership is mirrored on the creator's user document.
func (f *Fixtures) CreateCommunity(ctx context.Context, name, privacy string, creatorID primitive.ObjectID) models.Community {
	f.t.Helper()

	now := time.Now().UTC()
	community := models.Community{
		ID:               primitive.NewObjectID(),
		Name:             name,
		NameCI:           text.Fold(name),
		Description:      "Test community description",
		Privacy:          privacy,
		CreatorID:        creatorID,
		MemberIDs:        []primitive.ObjectID{creatorID},
		PendingMemberIDs: []primitive.ObjectID{},
		AdminIDs:         []primitive.ObjectID{creatorID},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := f.db.Collection("communities").InsertOne(ctx, community)
	if err != nil {
		f.t.Fatalf("failed to create test community: %v", err)
	}

	_, err = f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": creatorID},
		bson.M{"$addToSet": bson.M{"community_ids": community.ID}})
	if err != nil {
		f.t.Fatalf("failed to mirror community membership: %v", err)
	}

	return community
}

// AddMember adds userID to the community's member set and mirrors the
// membership on the user document.
func (f *Fixtures) AddMember(ctx context.Context, communityID, userID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("communities").UpdateOne(ctx,
		bson.M{"_id": communityID},
		bson.M{"$addToSet": bson.M{"member_ids": userID}})
	if err != nil {
		f.t.Fatalf("failed to add community member: %v", err)
	}
	_, err = f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"community_ids": communityID}})
	if err != nil {
		f.t.Fatalf("failed to mirror community membership: %v", err)
	}
}

// CreatePost creates a test post. communityID may be nil for a global post.
func (f *Fixtures) CreatePost(ctx context.Context, title string, authorID primitive.ObjectID, communityID *primitive.ObjectID) models.Post {
	f.t.Helper()

	now := time.Now().UTC()
	post := models.Post{
		ID:          primitive.NewObjectID(),
		AuthorID:    authorID,
		CommunityID: communityID,
		Title:       title,
		Body:        "Test post body",
		LikedBy:     []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("posts").InsertOne(ctx, post)
	if err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}

	return post
}

// CreateComment creates a test comment on the given post.
func (f *Fixtures) CreateComment(ctx context.Context, postID, authorID primitive.ObjectID, body string) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("comments").InsertOne(ctx, comment)
	if err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}

	return comment
}

// CreateEvent creates a test event. maxAttendees of 0 means unlimited.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, creatorID primitive.ObjectID, maxAttendees int) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	event := models.Event{
		ID:           primitive.NewObjectID(),
		CreatorID:    creatorID,
		Title:        title,
		Description:  "Test event description",
		StartsAt:     now.Add(24 * time.Hour),
		MaxAttendees: maxAttendees,
		RSVPIDs:      []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("events").InsertOne(ctx, event)
	if err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}

	return event
}

// CreateReport creates a pending test report against the given target.
func (f *Fixtures) CreateReport(ctx context.Context, reporterID primitive.ObjectID, targetType string, targetID primitive.ObjectID) models.Report {
	f.t.Helper()

	report := models.Report{
		ID:         primitive.NewObjectID(),
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     "Test report reason",
		Status:     models.ReportPending,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := f.db.Collection("reports").InsertOne(ctx, report)
	if err != nil {
		f.t.Fatalf("failed to create test report: %v", err)
	}

	return report
}

// CreateNotification creates a test notification for the given user.
func (f *Fixtures) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title string) models.Notification {
	f.t.Helper()

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   "Test notification message",
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("notifications").InsertOne(ctx, notification)
	if err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}

	return notification
}
