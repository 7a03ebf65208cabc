// internal/app/features/events/handler.go

// Package events serves the event API: create, view, and the RSVP unit of
// work with its capacity guard.
package events

import (
	communitystore "github.com/nexushub/nexushub/internal/app/store/communities"
	eventstore "github.com/nexushub/nexushub/internal/app/store/events"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all event handlers.
type Handler struct {
	DB          *mongo.Database
	Events      *eventstore.Store
	Communities *communitystore.Store
	Log         *zap.Logger
}

// NewHandler constructs an events Handler with its stores.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Events:      eventstore.New(db),
		Communities: communitystore.New(db),
		Log:         logger,
	}
}
