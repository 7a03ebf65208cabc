// internal/app/features/posts/like.go
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
)

// likeResult is the response data for like/unlike: the authoritative count
// after the mutation, for client-side reconciliation.
type likeResult struct {
	PostID    string `json:"post_id"`
	LikeCount int    `json:"like_count"`
	Liked     bool   `json:"liked"`
}

// Like handles POST /api/posts/{id}/like. The store's pipeline update adds
// the user to liked_by and recomputes like_count in the same write, so
// concurrent likes converge on the union of their sets.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.setLike(w, r, true)
}

// Unlike handles DELETE /api/posts/{id}/like.
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.setLike(w, r, false)
}

func (h *Handler) setLike(w http.ResponseWriter, r *http.Request, like bool) {
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

	var updated models.Post

	unitName := "post like"
	if !like {
		unitName = "post unlike"
	}
	unit := unitofwork.New(unitName, h.Log).
		Precondition("load post", func(ctx context.Context) error {
			p, err := h.Posts.GetByID(ctx, postID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return apierror.NotFound("post not found")
				}
				return apierror.Unavailable(err)
			}
			updated = p
			if like && p.LikedByUser(userID) {
				return apierror.NoOp("you already like this post")
			}
			if !like && !p.LikedByUser(userID) {
				return apierror.NoOp("you do not like this post")
			}
			return nil
		}).
		Primary("apply like set", func(ctx context.Context) error {
			var (
				p   models.Post
				err error
			)
			if like {
				p, err = h.Posts.Like(ctx, postID, userID)
			} else {
				p, err = h.Posts.Unlike(ctx, postID, userID)
			}
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return apierror.NotFound("post not found")
				}
				return apierror.Unavailable(err)
			}
			updated = p
			return nil
		})

	res, err := unit.Execute(ctx)
	if err != nil {
		apierror.WriteError(w, err)
		return
	}

	data := likeResult{
		PostID:    postID.Hex(),
		LikeCount: updated.LikeCount,
		Liked:     updated.LikedByUser(userID),
	}
	if res.NoOp {
		apierror.WriteUnchanged(w, res.NoOpMsg, data)
		return
	}
	msg := "post liked"
	if !like {
		msg = "post unliked"
	}
	apierror.WriteOK(w, msg, data)
}
