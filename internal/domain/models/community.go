// internal/domain/models/community.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Privacy values for Community.Privacy.
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// Community is a member-run group with posts and events.
//
// Invariants maintained by the community store:
//   - CreatorID is always present in MemberIDs and AdminIDs (set at create,
//     and the creator can never be pulled from either).
//   - A user id never appears in PendingMemberIDs and MemberIDs at the same
//     time; approval pulls pending and adds member in a single update.
//   - Pulling a user from MemberIDs also pulls them from AdminIDs in the
//     same update.
type Community struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	Privacy     string             `bson:"privacy" json:"privacy"` // public | private
	CreatorID   primitive.ObjectID `bson:"creator_id" json:"creator_id"`

	MemberIDs        []primitive.ObjectID `bson:"member_ids" json:"member_ids"`
	PendingMemberIDs []primitive.ObjectID `bson:"pending_member_ids" json:"pending_member_ids"`
	AdminIDs         []primitive.ObjectID `bson:"admin_ids" json:"admin_ids"`

	Category string   `bson:"category,omitempty" json:"category,omitempty"`
	Tags     []string `bson:"tags,omitempty" json:"tags,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsMember reports whether userID is in MemberIDs.
func (c *Community) IsMember(userID primitive.ObjectID) bool {
	return containsID(c.MemberIDs, userID)
}

// IsPending reports whether userID is in PendingMemberIDs.
func (c *Community) IsPending(userID primitive.ObjectID) bool {
	return containsID(c.PendingMemberIDs, userID)
}

// IsAdmin reports whether userID is in AdminIDs.
func (c *Community) IsAdmin(userID primitive.ObjectID) bool {
	return containsID(c.AdminIDs, userID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
