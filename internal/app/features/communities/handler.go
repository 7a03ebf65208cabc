// internal/app/features/communities/handler.go

// Package communities serves the community API: create, list, view, the
// join/approve/deny/leave membership units of work.
package communities

import (
	"github.com/nexushub/nexushub/internal/app/capability"
	communitystore "github.com/nexushub/nexushub/internal/app/store/communities"
	notificationstore "github.com/nexushub/nexushub/internal/app/store/notifications"
	userstore "github.com/nexushub/nexushub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all community handlers.
type Handler struct {
	DB            *mongo.Database
	Communities   *communitystore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Categorizer   capability.Categorizer
	Log           *zap.Logger
}

// NewHandler constructs a communities Handler with its stores.
func NewHandler(db *mongo.Database, categorizer capability.Categorizer, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Communities:   communitystore.New(db),
		Users:         userstore.New(db),
		Notifications: notificationstore.New(db),
		Categorizer:   categorizer,
		Log:           logger,
	}
}
