// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is user content, optionally scoped to a community.
//
// LikeCount is a cached copy of len(LikedBy) and CommentCount a cached count
// of comments referencing this post. Both are owned by the single store
// mutation that changes the underlying data (pipeline updates recompute
// LikeCount from LikedBy in the same write) and are never recomputed
// anywhere else.
type Post struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AuthorID    primitive.ObjectID  `bson:"author_id" json:"author_id"`
	CommunityID *primitive.ObjectID `bson:"community_id,omitempty" json:"community_id,omitempty"`
	Title       string              `bson:"title" json:"title"`
	Body        string              `bson:"body" json:"body"`
	Category    string              `bson:"category,omitempty" json:"category,omitempty"`
	Tags        []string            `bson:"tags,omitempty" json:"tags,omitempty"`

	LikedBy      []primitive.ObjectID `bson:"liked_by" json:"liked_by"`
	LikeCount    int                  `bson:"like_count" json:"like_count"`
	CommentCount int                  `bson:"comment_count" json:"comment_count"`

	Flagged    bool   `bson:"flagged,omitempty" json:"flagged,omitempty"`
	FlagReason string `bson:"flag_reason,omitempty" json:"flag_reason,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// LikedByUser reports whether userID has liked the post.
func (p *Post) LikedByUser(userID primitive.ObjectID) bool {
	return containsID(p.LikedBy, userID)
}
