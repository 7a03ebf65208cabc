// internal/app/features/reports/handler.go

// Package reports serves the moderation report API: filing reports, the
// moderator review queue, and the one-way review state machine.
package reports

import (
	commentstore "github.com/nexushub/nexushub/internal/app/store/comments"
	notificationstore "github.com/nexushub/nexushub/internal/app/store/notifications"
	poststore "github.com/nexushub/nexushub/internal/app/store/posts"
	reportstore "github.com/nexushub/nexushub/internal/app/store/reports"
	userstore "github.com/nexushub/nexushub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all report handlers.
type Handler struct {
	DB            *mongo.Database
	Reports       *reportstore.Store
	Posts         *poststore.Store
	Comments      *commentstore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

// NewHandler constructs a reports Handler with its stores.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Reports:       reportstore.New(db),
		Posts:         poststore.New(db),
		Comments:      commentstore.New(db),
		Users:         userstore.New(db),
		Notifications: notificationstore.New(db),
		Log:           logger,
	}
}
