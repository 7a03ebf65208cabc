// internal/app/features/events/create.go
package events

import (
	"context"
	"errors"
	"net/http"
	"time"

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
)

type createRequest struct {
	Title        string    `json:"title" validate:"required,min=3,max=200"`
	Description  string    `json:"description" validate:"max=5000"`
	Location     string    `json:"location" validate:"max=300"`
	StartsAt     time.Time `json:"starts_at" validate:"required"`
	MaxAttendees int       `json:"max_attendees" validate:"min=0"`
	CommunityID  string    `json:"community_id" validate:"omitempty,len=24"`
}

// Create handles POST /api/events. A community-scoped event requires the
// caller to be a member of that community.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		apierror.WriteError(w, apierror.Unauthorized("you must be signed in"))
		return
	}

	var req createRequest
	if aerr := inputval.DecodeAndValidate(r, &req, limits.MaxJSONBody); aerr != nil {
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
			apierror.WriteError(w, apierror.Forbidden("only community members can schedule events here"))
			return
		}
		communityID = &id
	}

	event, err := h.Events.Create(ctx, models.Event{
		CommunityID:  communityID,
		CreatorID:    userID,
		Title:        req.Title,
		Description:  htmlsanitize.Sanitize(req.Description),
		Location:     req.Location,
		StartsAt:     req.StartsAt.UTC(),
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	apierror.WriteCreated(w, "event created", event)
}

// Get handles GET /api/events/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed event id", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierror.WriteError(w, apierror.NotFound("event not found"))
			return
		}
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	apierror.WriteOK(w, "", e)
}
