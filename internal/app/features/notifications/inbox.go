// internal/app/features/notifications/inbox.go
package notifications

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/authz"
	"github.com/nexushub/nexushub/internal/app/system/paging"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ownerAndID(r *http.Request) (owner, id primitive.ObjectID, aerr *apierror.Error) {
	_, _, owner, ok := authz.UserCtx(r)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, apierror.Unauthorized("you must be signed in")
	}
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return owner, primitive.NilObjectID, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return owner, primitive.NilObjectID, apierror.Invalid("malformed notification id", nil)
	}
	return owner, id, nil
}

// List handles GET /api/notifications, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	owner, _, aerr := ownerAndID(r)
	if aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := h.Notifications.ListByUser(ctx, owner, paging.ParseLimit(r))
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	if out == nil {
		out = []models.Notification{}
	}
	apierror.WriteOK(w, "", out)
}

// Read handles PATCH /api/notifications/{id}/read. Marking an already-read
// notification again is an idempotent no-op.
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	owner, id, aerr := ownerAndID(r)
	if aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	matched, err := h.Notifications.MarkRead(ctx, id, owner)
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	if !matched {
		apierror.WriteError(w, apierror.NotFound("notification not found"))
		return
	}
	apierror.WriteOK(w, "notification marked read", nil)
}

// ReadAll handles PATCH /api/notifications/read-all.
func (h *Handler) ReadAll(w http.ResponseWriter, r *http.Request) {
	owner, _, aerr := ownerAndID(r)
	if aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Notifications.MarkAllRead(ctx, owner)
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	if n == 0 {
		apierror.WriteUnchanged(w, "no unread notifications", nil)
		return
	}
	apierror.WriteOK(w, "notifications marked read", map[string]int64{"updated": n})
}

// Delete handles DELETE /api/notifications/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, id, aerr := ownerAndID(r)
	if aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := h.Notifications.Delete(ctx, id, owner)
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	if deleted == 0 {
		apierror.WriteError(w, apierror.NotFound("notification not found"))
		return
	}
	apierror.WriteOK(w, "notification deleted", nil)
}

// DeleteAll handles DELETE /api/notifications.
func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	owner, _, aerr := ownerAndID(r)
	if aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Notifications.DeleteAllForUser(ctx, owner)
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	apierror.WriteOK(w, "notifications deleted", map[string]int64{"deleted": n})
}
