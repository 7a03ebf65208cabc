// internal/app/features/notifications/handler.go

// Package notifications serves the notification inbox API. Everything is
// owner-scoped: the store filters on the session user's id, so acting on
// someone else's notification reads as not-found.
package notifications

import (
	notificationstore "github.com/nexushub/nexushub/internal/app/store/notifications"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all notification handlers.
type Handler struct {
	DB            *mongo.Database
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

// NewHandler constructs a notifications Handler with its store.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Notifications: notificationstore.New(db),
		Log:           logger,
	}
}
