// internal/app/features/posts/delete.go
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
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Delete handles DELETE /api/posts/{id}: the multi-collection cascade.
//
// Order inside the unit: comments are removed first, then the post itself;
// the post deletion is what defines success, so a failure between the two
// leaves a rerunnable state (the retry deletes zero comments and tries the
// post again). Clearing the post from every user's bookmarks runs as the
// best-effort secondary; a dangling bookmark id is invisible to readers and
// cleaned up by the next unbookmark.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		apierror.WriteError(w, apierror.Unauthorized("you must be signed in"))
		return
	}

	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed post id", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var post models.Post

	unit := unitofwork.New("post delete cascade", h.Log).
		Precondition("load post", func(ctx context.Context) error {
			p, err := h.Posts.GetByID(ctx, postID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return apierror.NotFound("post not found")
				}
				return apierror.Unavailable(err)
			}
			post = p
			return nil
		}).
		Precondition("authorize deletion", func(ctx context.Context) error {
			if post.AuthorID != userID && role != "moderator" && role != "admin" {
				return apierror.Forbidden("only the author or a moderator can delete this post")
			}
			return nil
		}).
		Primary("delete comments and post", func(ctx context.Context) error {
			deleted, err := h.Comments.DeleteByPost(ctx, postID)
			if err != nil {
				return apierror.Unavailable(err)
			}
			h.Log.Debug("post delete: comments removed",
				zap.String("post_id", postID.Hex()),
				zap.Int64("count", deleted))

			if _, err := h.Posts.Delete(ctx, postID); err != nil {
				return apierror.Unavailable(err)
			}
			return nil
		}).
		Secondary("clear bookmarks", func(ctx context.Context) error {
			_, err := h.Users.PullBookmarkFromAll(ctx, postID)
			return err
		})

	res, err := unit.Execute(ctx)
	if err != nil {
		apierror.WriteError(w, err)
		return
	}
	if warning := res.PartialWarning(); warning != "" {
		apierror.WritePartial(w, "post deleted", warning, nil)
		return
	}
	apierror.WriteOK(w, "post deleted", nil)
}
