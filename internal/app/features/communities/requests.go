// internal/app/features/communities/requests.go
package communities

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/authz"
	"github.com/nexushub/nexushub/internal/app/system/inputval"
	"github.com/nexushub/nexushub/internal/app/system/limits"
	"github.com/nexushub/nexushub/internal/app/system/notify"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/app/system/unitofwork"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type reviewRequestBody struct {
	UserID string `json:"user_id" validate:"required"`
	Action string `json:"action" validate:"required,oneof=approve deny"`
}

// ReviewRequest handles POST /api/communities/{id}/requests: a community
// admin approves or denies a pending join request.
//
// Approve order is fixed: (a) move pending to member on the community in one
// guarded update, (b) add the community to the user's community_ids,
// (c) notify the requester. Step (a) is the primary; a repeat approval
// matches nothing in the store and lands as "unchanged".
func (h *Handler) ReviewRequest(w http.ResponseWriter, r *http.Request) {
	_, callerID, aerr := caller(r)
	if aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	communityID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed community id", nil))
		return
	}

	var req reviewRequestBody
	if aerr := inputval.DecodeAndValidate(r, &req, limits.MaxJSONBody); aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}
	targetID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed user_id", nil))
		return
	}
	approve := req.Action == "approve"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var community models.Community
	emitter := notify.NewEmitter(h.Notifications, h.Log)

	unit := unitofwork.New("join request review", h.Log).
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
		Precondition("authorize reviewer", func(ctx context.Context) error {
			if !community.IsAdmin(callerID) && !authz.IsAdmin(r) {
				return apierror.Forbidden("only a community admin can review join requests")
			}
			return nil
		}).
		Precondition("request state", func(ctx context.Context) error {
			if community.IsMember(targetID) {
				return apierror.NoOp("this user is already a member")
			}
			if !community.IsPending(targetID) {
				return apierror.NotFound("no pending join request for this user")
			}
			return nil
		}).
		Primary("resolve pending request", func(ctx context.Context) error {
			var (
				changed bool
				err     error
			)
			if approve {
				changed, err = h.Communities.ApprovePending(ctx, communityID, targetID)
			} else {
				changed, err = h.Communities.DenyPending(ctx, communityID, targetID)
			}
			if err != nil {
				return apierror.Unavailable(err)
			}
			if !changed {
				// A concurrent review got there first.
				return apierror.NoOp("this join request was already reviewed")
			}
			return nil
		}).
		Secondary("add community to user", func(ctx context.Context) error {
			if !approve {
				return nil
			}
			return h.Users.AddCommunity(ctx, targetID, communityID)
		}).
		Emit("notify requester", func(ctx context.Context) error {
			n := models.Notification{
				UserID:          targetID,
				ActorID:         &callerID,
				RelatedEntityID: &communityID,
				Link:            "/communities/" + communityID.Hex(),
			}
			if approve {
				n.Type = models.NotifyJoinApproved
				n.Title = "Join request approved"
				n.Message = "You are now a member of " + community.Name
			} else {
				n.Type = models.NotifyJoinDenied
				n.Title = "Join request denied"
				n.Message = "Your request to join " + community.Name + " was denied"
			}
			return emitter.Emit(ctx, n)
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

	msg := "join request denied"
	if approve {
		msg = "join request approved"
	}
	if warning := res.PartialWarning(); warning != "" {
		apierror.WritePartial(w, msg, warning, nil)
		return
	}
	apierror.WriteOK(w, msg, nil)
}
