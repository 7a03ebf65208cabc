// internal/app/store/users/fetcher.go
package userstore

import (
	"context"
	"errors"

	"github.com/nexushub/nexushub/internal/app/system/auth"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Fetcher loads a fresh SessionUser per request for the session
// middleware, so role changes and deleted accounts take effect on the
// next request instead of living on in a stale cookie.
type Fetcher struct {
	store *Store
	log   *zap.Logger
}

// NewFetcher builds a Fetcher over the users collection.
func NewFetcher(db *mongo.Database, logger *zap.Logger) *Fetcher {
	return &Fetcher{store: New(db), log: logger}
}

// FetchUser implements auth.UserFetcher. A missing or malformed id
// resolves to nil, which the middleware treats as signed out.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := f.store.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			f.log.Warn("session user fetch failed", zap.Error(err))
		}
		return nil
	}
	return &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}
}
