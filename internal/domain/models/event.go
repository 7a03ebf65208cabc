// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a scheduled gathering users can RSVP to.
// MaxAttendees of 0 means unlimited.
type Event struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CommunityID *primitive.ObjectID `bson:"community_id,omitempty" json:"community_id,omitempty"`
	CreatorID   primitive.ObjectID  `bson:"creator_id" json:"creator_id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Location    string              `bson:"location,omitempty" json:"location,omitempty"`
	StartsAt    time.Time           `bson:"starts_at" json:"starts_at"`

	MaxAttendees int                  `bson:"max_attendees" json:"max_attendees"`
	RSVPIDs      []primitive.ObjectID `bson:"rsvp_ids" json:"rsvp_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsFull reports whether the event has reached capacity.
func (e *Event) IsFull() bool {
	return e.MaxAttendees > 0 && len(e.RSVPIDs) >= e.MaxAttendees
}

// HasRSVP reports whether userID already RSVPed.
func (e *Event) HasRSVP(userID primitive.ObjectID) bool {
	return containsID(e.RSVPIDs, userID)
}
