// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"time"

	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

func normalize(p *models.Post) {
	if p.LikedBy == nil {
		p.LikedBy = []primitive.ObjectID{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Post{}, err
	}
	normalize(&p)
	return p, nil
}

func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.LikedBy = []primitive.ObjectID{}
	p.LikeCount = 0
	p.CommentCount = 0
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// Like adds userID to liked_by and recomputes like_count from the resulting
// set in the same atomic write (pipeline update), so the cached count can
// never drift from the set it summarizes. Returns the updated post.
func (s *Store) Like(ctx context.Context, postID, userID primitive.ObjectID) (models.Post, error) {
	return s.likePipeline(ctx, postID, bson.M{
		"$setUnion": bson.A{"$liked_by", bson.A{userID}},
	})
}

// Unlike removes userID from liked_by, recomputing like_count the same way.
func (s *Store) Unlike(ctx context.Context, postID, userID primitive.ObjectID) (models.Post, error) {
	return s.likePipeline(ctx, postID, bson.M{
		"$setDifference": bson.A{"$liked_by", bson.A{userID}},
	})
}

func (s *Store) likePipeline(ctx context.Context, postID primitive.ObjectID, likedBy bson.M) (models.Post, error) {
	pipeline := bson.A{
		bson.M{"$set": bson.M{"liked_by": likedBy}},
		bson.M{"$set": bson.M{
			"like_count": bson.M{"$size": "$liked_by"},
			"updated_at": "$$NOW",
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Post
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": postID}, pipeline, opts).Decode(&p); err != nil {
		return models.Post{}, err
	}
	normalize(&p)
	return p, nil
}

// BumpCommentCount adjusts the cached comment_count by delta. Only the
// comment-create unit of work and the delete cascade call this; nothing else
// touches the counter.
func (s *Store) BumpCommentCount(ctx context.Context, postID primitive.ObjectID, delta int) error {
	_, err := s.c.UpdateByID(ctx, postID, bson.M{
		"$inc": bson.M{"comment_count": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// Delete removes a post. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SetFlag records the moderation verdict on a post.
func (s *Store) SetFlag(ctx context.Context, id primitive.ObjectID, flagged bool, reason string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"flagged":     flagged,
			"flag_reason": reason,
			"updated_at":  time.Now().UTC(),
		},
	})
	return err
}

// ListFeed returns posts for the given communities (plus community-less
// posts when includeGlobal is set), newest first, using _id keyset paging.
// Pass the zero ObjectID as before for the first page. Fetches limit+1 rows
// so the caller can detect whether another page exists.
func (s *Store) ListFeed(ctx context.Context, communityIDs []primitive.ObjectID, includeGlobal bool, before primitive.ObjectID, limit int64) ([]models.Post, error) {
	var scope []bson.M
	if len(communityIDs) > 0 {
		scope = append(scope, bson.M{"community_id": bson.M{"$in": communityIDs}})
	}
	if includeGlobal {
		scope = append(scope, bson.M{"community_id": nil})
	}

	filter := bson.M{}
	if len(scope) > 0 {
		filter["$or"] = scope
	}
	if !before.IsZero() {
		filter["_id"] = bson.M{"$lt": before}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(limit + 1)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		normalize(&out[i])
	}
	return out, nil
}
