// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotifyJoinRequest    = "join_request"
	NotifyJoinApproved   = "join_approved"
	NotifyJoinDenied     = "join_denied"
	NotifyNewComment     = "new_comment"
	NotifyReportReviewed = "report_reviewed"
)

// Notification is an append-only record addressed to a single user.
// Only IsRead is ever mutated; the owner may delete notifications
// individually or in bulk.
type Notification struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"user_id" json:"user_id"`
	ActorID         *primitive.ObjectID `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	Type            string              `bson:"type" json:"type"`
	Title           string              `bson:"title" json:"title"`
	Message         string              `bson:"message" json:"message"`
	Link            string              `bson:"link,omitempty" json:"link,omitempty"`
	RelatedEntityID *primitive.ObjectID `bson:"related_entity_id,omitempty" json:"related_entity_id,omitempty"`
	IsRead          bool                `bson:"is_read" json:"is_read"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
