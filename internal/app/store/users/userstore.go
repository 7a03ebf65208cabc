// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("an account with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// normalize enforces strict defaults at the accessor boundary: documents
// written before a field existed decode with nil slices, and no call site
// should ever have to guard against that.
func normalize(u *models.User) {
	if u.CommunityIDs == nil {
		u.CommunityIDs = []primitive.ObjectID{}
	}
	if u.BookmarkedPostIDs == nil {
		u.BookmarkedPostIDs = []primitive.ObjectID{}
	}
	if u.Role == "" {
		u.Role = "member"
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	normalize(&u)
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Decode(&u); err != nil {
		return models.User{}, err
	}
	normalize(&u)
	return u, nil
}

// Create inserts a password-auth user. The password is hashed with bcrypt
// at cost 12 before storage.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = string(hash)
	u.AuthMethod = "password"
	return s.insert(ctx, u)
}

// CreateOAuth inserts a user authenticated by an external provider.
func (s *Store) CreateOAuth(ctx context.Context, u models.User, provider string) (models.User, error) {
	u.AuthMethod = provider
	return s.insert(ctx, u)
}

func (s *Store) insert(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.FullNameCI = text.Fold(u.FullName)
	u.EmailCI = text.Fold(u.Email)
	if u.Role == "" {
		u.Role = "member"
	}
	if u.CommunityIDs == nil {
		u.CommunityIDs = []primitive.ObjectID{}
	}
	if u.BookmarkedPostIDs == nil {
		u.BookmarkedPostIDs = []primitive.ObjectID{}
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// VerifyPassword checks a candidate password against the stored hash.
func (s *Store) VerifyPassword(u models.User, password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// AddCommunity adds communityID to the user's community_ids set.
// Idempotent: adding an id already present modifies nothing.
func (s *Store) AddCommunity(ctx context.Context, userID, communityID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"community_ids": communityID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveCommunity pulls communityID from the user's community_ids set.
func (s *Store) RemoveCommunity(ctx context.Context, userID, communityID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"community_ids": communityID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// AddBookmark adds postID to the user's bookmarked_post_ids set.
// Returns true when the set changed (false means it was already bookmarked).
func (s *Store) AddBookmark(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "bookmarked_post_ids": bson.M{"$ne": postID}},
		bson.M{
			"$addToSet": bson.M{"bookmarked_post_ids": postID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemoveBookmark pulls postID from the user's bookmarked_post_ids set.
// Returns true when the set changed.
func (s *Store) RemoveBookmark(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "bookmarked_post_ids": postID},
		bson.M{
			"$pull": bson.M{"bookmarked_post_ids": postID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// PullBookmarkFromAll removes postID from every user's bookmarked_post_ids.
// Used by the post delete cascade; the UpdateMany is unbounded.
// Returns the number of users whose bookmarks changed.
func (s *Store) PullBookmarkFromAll(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"bookmarked_post_ids": postID},
		bson.M{"$pull": bson.M{"bookmarked_post_ids": postID}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
