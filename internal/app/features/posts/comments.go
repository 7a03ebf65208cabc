// internal/app/features/posts/comments.go
package posts

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/authz"
	"github.com/nexushub/nexushub/internal/app/system/htmlsanitize"
	"github.com/nexushub/nexushub/internal/app/system/inputval"
	"github.com/nexushub/nexushub/internal/app/system/limits"
	"github.com/nexushub/nexushub/internal/app/system/notify"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/app/system/unitofwork"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type commentRequest struct {
	Body string `json:"body" validate:"required,max=10000"`
}

// CreateComment handles POST /api/posts/{id}/comments.
//
// The comment insert is the primary mutation; the cached comment_count bump
// on the post is the secondary (a missed bump leaves the counter low until
// the next cascade touches it, which readers tolerate); the post author gets
// a notification unless they commented on their own post.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	name, userID, aerr := commentCaller(r)
	if aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed post id", nil))
		return
	}

	var req commentRequest
	if aerr := inputval.DecodeAndValidate(r, &req, limits.MaxJSONBody); aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var (
		post    models.Post
		comment models.Comment
	)
	emitter := notify.NewEmitter(h.Notifications, h.Log)

	unit := unitofwork.New("comment create", h.Log).
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
		Primary("insert comment", func(ctx context.Context) error {
			c, err := h.Comments.Create(ctx, models.Comment{
				PostID:   postID,
				AuthorID: userID,
				Body:     htmlsanitize.Sanitize(req.Body),
			})
			if err != nil {
				return apierror.Unavailable(err)
			}
			comment = c
			return nil
		}).
		Secondary("bump comment count", func(ctx context.Context) error {
			return h.Posts.BumpCommentCount(ctx, postID, 1)
		}).
		Emit("notify post author", func(ctx context.Context) error {
			if post.AuthorID == userID {
				return nil
			}
			return emitter.Emit(ctx, models.Notification{
				UserID:          post.AuthorID,
				ActorID:         &userID,
				Type:            models.NotifyNewComment,
				Title:           "New comment",
				Message:         name + " commented on " + post.Title,
				Link:            "/posts/" + postID.Hex(),
				RelatedEntityID: &postID,
			})
		})

	res, err := unit.Execute(ctx)
	if err != nil {
		apierror.WriteError(w, err)
		return
	}
	if warning := res.PartialWarning(); warning != "" {
		apierror.WritePartial(w, "comment added", warning, comment)
		return
	}
	apierror.WriteCreated(w, "comment added", comment)
}

// ListComments handles GET /api/posts/{id}/comments, oldest first.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed post id", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierror.WriteError(w, apierror.NotFound("post not found"))
			return
		}
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}

	comments, err := h.Comments.ListByPost(ctx, postID)
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	apierror.WriteOK(w, "", comments)
}

func commentCaller(r *http.Request) (string, primitive.ObjectID, *apierror.Error) {
	_, name, userID, ok := authz.UserCtx(r)
	if !ok {
		return "", primitive.NilObjectID, apierror.Unauthorized("you must be signed in")
	}
	return name, userID, nil
}
