// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a NexusHub account.
//
// NOTE:
//   - CommunityIDs and BookmarkedPostIDs are reciprocal sets: the same
//     relationships also live on Community.MemberIDs and Post (bookmarks are
//     user-side only). They are mutated exclusively through the user store's
//     add-to-set/pull methods so repeated writes stay idempotent.
//   - PasswordHash is empty for accounts created through Google sign-in.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google
	Role         string             `bson:"role" json:"role"`                                   // member | moderator | admin

	CommunityIDs      []primitive.ObjectID `bson:"community_ids" json:"community_ids"`
	BookmarkedPostIDs []primitive.ObjectID `bson:"bookmarked_post_ids" json:"bookmarked_post_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
