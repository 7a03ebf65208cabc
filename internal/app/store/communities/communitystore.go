// internal/app/store/communities/communitystore.go
package communitystore

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateCommunityName = errors.New("a community with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("communities")}
}

func normalize(c *models.Community) {
	if c.MemberIDs == nil {
		c.MemberIDs = []primitive.ObjectID{}
	}
	if c.PendingMemberIDs == nil {
		c.PendingMemberIDs = []primitive.ObjectID{}
	}
	if c.AdminIDs == nil {
		c.AdminIDs = []primitive.ObjectID{}
	}
	if c.Privacy == "" {
		c.Privacy = models.PrivacyPublic
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Community, error) {
	var c models.Community
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Community{}, err
	}
	normalize(&c)
	return c, nil
}

// Create inserts a community with the creator as its first member and admin.
func (s *Store) Create(ctx context.Context, c models.Community) (models.Community, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.NameCI = text.Fold(c.Name)
	if c.Privacy == "" {
		c.Privacy = models.PrivacyPublic
	}
	c.MemberIDs = []primitive.ObjectID{c.CreatorID}
	c.AdminIDs = []primitive.ObjectID{c.CreatorID}
	c.PendingMemberIDs = []primitive.ObjectID{}
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Community{}, ErrDuplicateCommunityName
		}
		return models.Community{}, err
	}
	return c, nil
}

// List returns communities ordered by folded name.
func (s *Store) List(ctx context.Context, limit int64) ([]models.Community, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Community
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		normalize(&out[i])
	}
	return out, nil
}

// AddMember adds userID to member_ids. Idempotent; returns true when the
// membership set actually changed. The filter excludes documents that
// already hold the member so updated_at is only touched on a real change.
func (s *Store) AddMember(ctx context.Context, communityID, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": communityID, "member_ids": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"member_ids": userID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// AddPending adds userID to pending_member_ids (private-community join).
func (s *Store) AddPending(ctx context.Context, communityID, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": communityID, "pending_member_ids": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"pending_member_ids": userID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ApprovePending moves userID from pending_member_ids to member_ids in one
// guarded update, so a pending user is never simultaneously a member and a
// repeated approve matches nothing. Returns true when the document changed.
func (s *Store) ApprovePending(ctx context.Context, communityID, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": communityID, "pending_member_ids": userID},
		bson.M{
			"$pull":     bson.M{"pending_member_ids": userID},
			"$addToSet": bson.M{"member_ids": userID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// DenyPending pulls userID from pending_member_ids.
func (s *Store) DenyPending(ctx context.Context, communityID, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": communityID, "pending_member_ids": userID},
		bson.M{
			"$pull": bson.M{"pending_member_ids": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemoveMember pulls userID from member_ids and admin_ids in the same
// update, preserving the invariant that every admin is a member. The filter
// excludes the creator: the creator can never be removed.
func (s *Store) RemoveMember(ctx context.Context, communityID, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": communityID, "creator_id": bson.M{"$ne": userID}},
		bson.M{
			"$pull": bson.M{
				"member_ids": userID,
				"admin_ids":  userID,
			},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
