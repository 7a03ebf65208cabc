// internal/app/features/posts/bookmark.go
package posts

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/authz"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/app/system/unitofwork"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Bookmark handles POST /api/posts/{id}/bookmark. Bookmarks live on the
// user document only; the post is read to confirm it exists.
func (h *Handler) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.setBookmark(w, r, true)
}

// Unbookmark handles POST /api/posts/{id}/unbookmark.
func (h *Handler) Unbookmark(w http.ResponseWriter, r *http.Request) {
	h.setBookmark(w, r, false)
}

func (h *Handler) setBookmark(w http.ResponseWriter, r *http.Request, add bool) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		apierror.WriteError(w, apierror.Unauthorized("you must be signed in"))
		return
	}

	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed post id", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	unitName := "post bookmark"
	if !add {
		unitName = "post unbookmark"
	}
	unit := unitofwork.New(unitName, h.Log).
		Precondition("post exists", func(ctx context.Context) error {
			// An unbookmark of a since-deleted post still works: the pull
			// cleans up the dangling reference.
			if !add {
				return nil
			}
			if _, err := h.Posts.GetByID(ctx, postID); err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return apierror.NotFound("post not found")
				}
				return apierror.Unavailable(err)
			}
			return nil
		}).
		Primary("apply bookmark set", func(ctx context.Context) error {
			var (
				changed bool
				err     error
			)
			if add {
				changed, err = h.Users.AddBookmark(ctx, userID, postID)
			} else {
				changed, err = h.Users.RemoveBookmark(ctx, userID, postID)
			}
			if err != nil {
				return apierror.Unavailable(err)
			}
			if !changed {
				if add {
					return apierror.NoOp("post is already bookmarked")
				}
				return apierror.NoOp("post is not bookmarked")
			}
			return nil
		})

	res, err := unit.Execute(ctx)
	if err != nil {
		apierror.WriteError(w, err)
		return
	}
	if res.NoOp {
		apierror.WriteUnchanged(w, res.NoOpMsg, nil)
		return
	}
	msg := "post bookmarked"
	if !add {
		msg = "bookmark removed"
	}
	apierror.WriteOK(w, msg, nil)
}
