// internal/app/features/events/rsvp.go
package events

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

// RSVP handles POST /api/events/{id}/rsvp.
//
// The precondition read gives a fast answer for the common cases (missing
// event, repeat RSVP, visibly full event), but the authoritative capacity
// check is the store's guarded update: when two callers race for the last
// slot the loser's filter no longer matches and the unit answers 409.
func (h *Handler) RSVP(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		apierror.WriteError(w, apierror.Unauthorized("you must be signed in"))
		return
	}

	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed event id", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var event models.Event

	unit := unitofwork.New("event rsvp", h.Log).
		Precondition("load event", func(ctx context.Context) error {
			e, err := h.Events.GetByID(ctx, eventID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return apierror.NotFound("event not found")
				}
				return apierror.Unavailable(err)
			}
			event = e
			return nil
		}).
		Precondition("rsvp state", func(ctx context.Context) error {
			if event.HasRSVP(userID) {
				return apierror.NoOp("you have already RSVPed to this event")
			}
			if event.IsFull() {
				return apierror.Conflict("this event is full")
			}
			return nil
		}).
		Primary("add rsvp", func(ctx context.Context) error {
			changed, matched, err := h.Events.AddRSVP(ctx, eventID, userID)
			if err != nil {
				return apierror.Unavailable(err)
			}
			if !matched {
				return apierror.Conflict("this event is full")
			}
			if !changed {
				return apierror.NoOp("you have already RSVPed to this event")
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
	apierror.WriteOK(w, "RSVP recorded", nil)
}

// CancelRSVP handles DELETE /api/events/{id}/rsvp. Pull is idempotent:
// canceling an RSVP that does not exist answers "unchanged".
func (h *Handler) CancelRSVP(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		apierror.WriteError(w, apierror.Unauthorized("you must be signed in"))
		return
	}

	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed event id", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	unit := unitofwork.New("event rsvp cancel", h.Log).
		Precondition("load event", func(ctx context.Context) error {
			e, err := h.Events.GetByID(ctx, eventID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return apierror.NotFound("event not found")
				}
				return apierror.Unavailable(err)
			}
			if !e.HasRSVP(userID) {
				return apierror.NoOp("you have not RSVPed to this event")
			}
			return nil
		}).
		Primary("pull rsvp", func(ctx context.Context) error {
			if _, err := h.Events.RemoveRSVP(ctx, eventID, userID); err != nil {
				return apierror.Unavailable(err)
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
	apierror.WriteOK(w, "RSVP canceled", nil)
}
