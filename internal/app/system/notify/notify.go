// internal/app/system/notify/notify.go

// Package notify is the side-effect emitter: it constructs and inserts
// notification documents as the trailing step of a unit of work. An emitter
// never blocks or fails the unit that triggered it; insert errors are logged
// and swallowed by the unit-of-work layer.
package notify

import (
	"context"

	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Inserter is the slice of the notification store the emitter needs.
type Inserter interface {
	Insert(ctx context.Context, n models.Notification) (models.Notification, error)
}

// Emitter buffers dedupe state for a single unit-of-work invocation.
// Create one per invocation; it is not safe for concurrent use, and reusing
// one across units would suppress legitimate notifications.
type Emitter struct {
	store Inserter
	log   *zap.Logger
	seen  map[dedupeKey]struct{}
}

type dedupeKey struct {
	userID  primitive.ObjectID
	typ     string
	related primitive.ObjectID
}

// NewEmitter builds an emitter for one unit-of-work invocation.
func NewEmitter(store Inserter, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{store: store, log: logger, seen: make(map[dedupeKey]struct{})}
}

// Emit inserts n unless the same (user, type, related entity) triple has
// already been emitted by this invocation.
func (e *Emitter) Emit(ctx context.Context, n models.Notification) error {
	key := dedupeKey{userID: n.UserID, typ: n.Type}
	if n.RelatedEntityID != nil {
		key.related = *n.RelatedEntityID
	}
	if _, dup := e.seen[key]; dup {
		e.log.Debug("notify: duplicate emission suppressed",
			zap.String("user_id", n.UserID.Hex()),
			zap.String("type", n.Type))
		return nil
	}
	e.seen[key] = struct{}{}

	if _, err := e.store.Insert(ctx, n); err != nil {
		return err
	}
	return nil
}
