// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/nexushub/nexushub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the current user's role (lowercased), name, Mongo ObjectID,
// and a found flag. If no user is in context or the session's user id is
// malformed it returns "visitor", "", NilObjectID, false. ok=true always
// means an authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed id in session; fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsModerator reports whether the user may review reports. Admins moderate.
func IsModerator(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == "moderator" || role == "admin")
}
