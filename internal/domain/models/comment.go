// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment belongs to a post and is deleted en masse when the post is deleted.
type Comment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID   primitive.ObjectID `bson:"post_id" json:"post_id"`
	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`
	Body     string             `bson:"body" json:"body"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
