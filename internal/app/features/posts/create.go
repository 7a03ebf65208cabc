// internal/app/features/posts/create.go
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
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=300"`
	Body        string `json:"body" validate:"required"`
	CommunityID string `json:"community_id" validate:"omitempty,len=24"`
}

// Create handles POST /api/posts. The body is sanitized at the write
// boundary; the moderation capability may flag the post (it is still stored,
// flagged for review) and the categorizer labels it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		apierror.WriteError(w, apierror.Unauthorized("you must be signed in"))
		return
	}

	var req createRequest
	if aerr := inputval.DecodeAndValidate(r, &req, limits.MaxPostBody); aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var communityID *primitive.ObjectID
	if req.CommunityID != "" {
		id, err := primitive.ObjectIDFromHex(req.CommunityID)
		if err != nil {
			apierror.WriteError(w, apierror.Invalid("malformed community_id", nil))
			return
		}
		c, err := h.Communities.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				apierror.WriteError(w, apierror.NotFound("community not found"))
				return
			}
			apierror.WriteError(w, apierror.Unavailable(err))
			return
		}
		if !c.IsMember(userID) {
			apierror.WriteError(w, apierror.Forbidden("only community members can post here"))
			return
		}
		communityID = &id
	}

	title := htmlsanitize.Sanitize(req.Title)
	body := htmlsanitize.Sanitize(req.Body)

	post := models.Post{
		AuthorID:    userID,
		CommunityID: communityID,
		Title:       title,
		Body:        body,
	}

	verdict, err := h.Moderator.Moderate(ctx, title+"\n"+body)
	if err != nil {
		// The moderator is a black box; when it is down the post still
		// lands, unflagged, and moderation happens through reports.
		h.Log.Warn("post create: moderation failed", zap.Error(err))
	} else if verdict.IsFlagged {
		post.Flagged = true
		post.FlagReason = verdict.Reason
	}

	if labels, err := h.Categorizer.Categorize(ctx, title+"\n"+body); err != nil {
		h.Log.Warn("post create: categorize failed", zap.Error(err))
	} else {
		post.Category = labels.Category
		post.Tags = labels.Tags
	}

	created, err := h.Posts.Create(ctx, post)
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	apierror.WriteCreated(w, "post created", created)
}

// Get handles GET /api/posts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed post id", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierror.WriteError(w, apierror.NotFound("post not found"))
			return
		}
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	apierror.WriteOK(w, "", p)
}
