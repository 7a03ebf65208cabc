// internal/app/features/communities/join.go
package communities

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/authz"
	"github.com/nexushub/nexushub/internal/app/system/notify"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/app/system/unitofwork"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// caller extracts the signed-in user's id and display name, or an
// Unauthorized error. RequireSignedIn already gates these routes; this
// guards against a malformed session id as well.
func caller(r *http.Request) (string, primitive.ObjectID, *apierror.Error) {
	_, name, userID, ok := authz.UserCtx(r)
	if !ok {
		return "", primitive.NilObjectID, apierror.Unauthorized("you must be signed in")
	}
	return name, userID, nil
}

// Join handles POST /api/communities/{id}/members.
//
// Public communities admit the caller immediately: add-member on the
// community is the primary mutation, the reciprocal community_ids update on
// the user is the secondary. Private communities queue a pending request
// instead and notify the community admins. Rejoining (or re-requesting) is
// an idempotent no-op answered with status "unchanged".
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	name, userID, aerr := caller(r)
	if aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	communityID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed community id", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var community models.Community
	emitter := notify.NewEmitter(h.Notifications, h.Log)
	private := func() bool { return community.Privacy == models.PrivacyPrivate }

	unit := unitofwork.New("community join", h.Log).
		Precondition("load community", func(ctx context.Context) error {
			c, err := h.Communities.GetByID(ctx, communityID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return apierror.NotFound("community not found")
				}
				return apierror.Unavailable(err)
			}
			community = c
			return nil
		}).
		Precondition("membership state", func(ctx context.Context) error {
			if community.IsMember(userID) {
				return apierror.NoOp("you are already a member of this community")
			}
			if private() && community.IsPending(userID) {
				return apierror.NoOp("your join request is already pending")
			}
			return nil
		}).
		Primary("apply membership", func(ctx context.Context) error {
			var err error
			if private() {
				_, err = h.Communities.AddPending(ctx, communityID, userID)
			} else {
				_, err = h.Communities.AddMember(ctx, communityID, userID)
			}
			if err != nil {
				return apierror.Unavailable(err)
			}
			return nil
		}).
		Secondary("add community to user", func(ctx context.Context) error {
			if private() {
				return nil
			}
			return h.Users.AddCommunity(ctx, userID, communityID)
		}).
		Emit("notify admins of join request", func(ctx context.Context) error {
			if !private() {
				return nil
			}
			for _, adminID := range community.AdminIDs {
				n := models.Notification{
					UserID:          adminID,
					ActorID:         &userID,
					Type:            models.NotifyJoinRequest,
					Title:           "New join request",
					Message:         name + " asked to join " + community.Name,
					Link:            "/communities/" + communityID.Hex(),
					RelatedEntityID: &communityID,
				}
				if err := emitter.Emit(ctx, n); err != nil {
					return err
				}
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
	if private() {
		apierror.WriteOK(w, "join request submitted", map[string]string{"membership": "pending"})
		return
	}
	if warning := res.PartialWarning(); warning != "" {
		apierror.WritePartial(w, "joined the community", warning, nil)
		return
	}
	apierror.WriteCreated(w, "joined the community", map[string]string{"membership": "member"})
}
