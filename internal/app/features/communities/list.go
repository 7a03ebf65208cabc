// internal/app/features/communities/list.go
package communities

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/paging"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// List handles GET /api/communities.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	limit := paging.ParseLimit(r)
	out, err := h.Communities.List(ctx, limit)
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	apierror.WriteOK(w, "", out)
}

// Get handles GET /api/communities/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed community id", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Communities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierror.WriteError(w, apierror.NotFound("community not found"))
			return
		}
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	apierror.WriteOK(w, "", c)
}
