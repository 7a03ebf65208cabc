// internal/app/features/posts/handler.go

// Package posts serves the post API: create with moderation, like/unlike,
// bookmarks, comments, and the delete cascade.
package posts

import (
	"github.com/nexushub/nexushub/internal/app/capability"
	commentstore "github.com/nexushub/nexushub/internal/app/store/comments"
	communitystore "github.com/nexushub/nexushub/internal/app/store/communities"
	notificationstore "github.com/nexushub/nexushub/internal/app/store/notifications"
	poststore "github.com/nexushub/nexushub/internal/app/store/posts"
	userstore "github.com/nexushub/nexushub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all post handlers.
type Handler struct {
	DB            *mongo.Database
	Posts         *poststore.Store
	Comments      *commentstore.Store
	Communities   *communitystore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Moderator     capability.Moderator
	Categorizer   capability.Categorizer
	Log           *zap.Logger
}

// NewHandler constructs a posts Handler with its stores and capabilities.
func NewHandler(db *mongo.Database, moderator capability.Moderator, categorizer capability.Categorizer, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Posts:         poststore.New(db),
		Comments:      commentstore.New(db),
		Communities:   communitystore.New(db),
		Users:         userstore.New(db),
		Notifications: notificationstore.New(db),
		Moderator:     moderator,
		Categorizer:   categorizer,
		Log:           logger,
	}
}
