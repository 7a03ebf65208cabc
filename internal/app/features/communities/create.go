// internal/app/features/communities/create.go
package communities

import (
	"context"
	"errors"
	"net/http"

	communitystore "github.com/nexushub/nexushub/internal/app/store/communities"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/authz"
	"github.com/nexushub/nexushub/internal/app/system/htmlsanitize"
	"github.com/nexushub/nexushub/internal/app/system/inputval"
	"github.com/nexushub/nexushub/internal/app/system/limits"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/app/system/unitofwork"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Privacy     string `json:"privacy" validate:"omitempty,oneof=public private"`
}

// Create handles POST /api/communities. The creator becomes the first
// member and admin; the categorizer labels the community from its text.
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	labels, err := h.Categorizer.Categorize(ctx, req.Name+" "+req.Description)
	if err != nil {
		// Labeling is best-effort; an unlabeled community is still valid.
		h.Log.Warn("community create: categorize failed", zap.Error(err))
	}

	var created models.Community
	unit := unitofwork.New("community create", h.Log).
		Primary("insert community", func(ctx context.Context) error {
			c, err := h.Communities.Create(ctx, models.Community{
				Name:        req.Name,
				Description: htmlsanitize.Sanitize(req.Description),
				Privacy:     req.Privacy,
				CreatorID:   userID,
				Category:    labels.Category,
				Tags:        labels.Tags,
			})
			if err != nil {
				if errors.Is(err, communitystore.ErrDuplicateCommunityName) {
					return apierror.Conflict(err.Error())
				}
				return apierror.Unavailable(err)
			}
			created = c
			return nil
		}).
		Secondary("add community to creator", func(ctx context.Context) error {
			return h.Users.AddCommunity(ctx, userID, created.ID)
		})

	res, err := unit.Execute(ctx)
	if err != nil {
		apierror.WriteError(w, err)
		return
	}
	if warning := res.PartialWarning(); warning != "" {
		apierror.WritePartial(w, "community created", warning, created)
		return
	}
	apierror.WriteCreated(w, "community created", created)
}
