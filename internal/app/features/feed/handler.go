// internal/app/features/feed/handler.go

// Package feed serves GET /api/feed: the recency feed scoped to the
// caller's communities, with keyset pagination on post ids.
package feed

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	poststore "github.com/nexushub/nexushub/internal/app/store/posts"
	userstore "github.com/nexushub/nexushub/internal/app/store/users"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/auth"
	"github.com/nexushub/nexushub/internal/app/system/authz"
	"github.com/nexushub/nexushub/internal/app/system/paging"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the feed handler.
type Handler struct {
	DB    *mongo.Database
	Posts *poststore.Store
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a feed Handler with its stores.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Posts: poststore.New(db),
		Users: userstore.New(db),
		Log:   logger,
	}
}

// Routes returns the feed subrouter, mounted under /api/feed.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/", h.Serve)
	return r
}

// feedPage is the response data for a feed page.
type feedPage struct {
	Posts      []models.Post `json:"posts"`
	HasNext    bool          `json:"has_next"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Serve handles GET /api/feed?limit=&before=. The page spans the caller's
// communities plus community-less posts, newest first; `before` is the
// opaque cursor from the previous page.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		apierror.WriteError(w, apierror.Unauthorized("you must be signed in"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierror.WriteError(w, apierror.Unauthorized("account no longer exists"))
			return
		}
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}

	limit := paging.ParseLimit(r)
	before := paging.ParseBefore(r)

	posts, err := h.Posts.ListFeed(ctx, user.CommunityIDs, true, before, limit)
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	page := paging.TrimPage(&posts, limit, func(p models.Post) string { return p.ID.Hex() })
	apierror.WriteOK(w, "", feedPage{
		Posts:      posts,
		HasNext:    page.HasNext,
		NextCursor: page.NextCursor,
	})
}
