// internal/app/features/communities/leave.go
package communities

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/authz"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/app/system/unitofwork"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Leave handles DELETE /api/communities/{id}/members?userId=.
//
// Without userId the caller removes themselves. With userId a community
// admin (or a site admin) removes another member. The creator can never be
// removed; the store's update filter enforces that even under races, and
// the pull drops admin_ids in the same write so no ex-member stays an admin.
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
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

	targetID := callerID
	if raw := query.Get(r, "userId"); raw != "" {
		targetID, err = primitive.ObjectIDFromHex(raw)
		if err != nil {
			apierror.WriteError(w, apierror.Invalid("malformed userId", nil))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var community models.Community

	unit := unitofwork.New("community leave", h.Log).
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
		Precondition("authorize removal", func(ctx context.Context) error {
			if targetID != callerID && !community.IsAdmin(callerID) && !authz.IsAdmin(r) {
				return apierror.Forbidden("only a community admin can remove another member")
			}
			if targetID == community.CreatorID {
				return apierror.Forbidden("the community creator cannot be removed")
			}
			if !community.IsMember(targetID) {
				return apierror.NoOp("not a member of this community")
			}
			return nil
		}).
		Primary("pull member", func(ctx context.Context) error {
			if _, err := h.Communities.RemoveMember(ctx, communityID, targetID); err != nil {
				return apierror.Unavailable(err)
			}
			return nil
		}).
		Secondary("remove community from user", func(ctx context.Context) error {
			return h.Users.RemoveCommunity(ctx, targetID, communityID)
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
	if warning := res.PartialWarning(); warning != "" {
		apierror.WritePartial(w, "left the community", warning, nil)
		return
	}
	apierror.WriteOK(w, "left the community", nil)
}
