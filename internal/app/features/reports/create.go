// internal/app/features/reports/create.go
package reports

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/authz"
	"github.com/nexushub/nexushub/internal/app/system/inputval"
	"github.com/nexushub/nexushub/internal/app/system/limits"
	"github.com/nexushub/nexushub/internal/app/system/paging"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type createRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=post comment user"`
	TargetID   string `json:"target_id" validate:"required,len=24"`
	Reason     string `json:"reason" validate:"required,max=2000"`
}

// Create handles POST /api/reports. The target must exist at filing time;
// a report always starts pending.
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
	targetID, err := primitive.ObjectIDFromHex(req.TargetID)
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed target_id", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.targetExists(ctx, req.TargetType, targetID); err != nil {
		apierror.WriteError(w, err)
		return
	}

	report, err := h.Reports.Create(ctx, models.Report{
		ReporterID: userID,
		TargetType: req.TargetType,
		TargetID:   targetID,
		Reason:     req.Reason,
	})
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	apierror.WriteCreated(w, "report filed", report)
}

func (h *Handler) targetExists(ctx context.Context, targetType string, id primitive.ObjectID) *apierror.Error {
	var err error
	switch targetType {
	case models.ReportTargetPost:
		_, err = h.Posts.GetByID(ctx, id)
	case models.ReportTargetComment:
		_, err = h.Comments.GetByID(ctx, id)
	case models.ReportTargetUser:
		_, err = h.Users.GetByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apierror.NotFound("the reported " + targetType + " does not exist")
		}
		return apierror.Unavailable(err)
	}
	return nil
}

// List handles GET /api/reports?status=. Defaults to the pending queue,
// oldest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := query.Get(r, "status")
	if status == "" {
		status = models.ReportPending
	}
	if status != models.ReportPending && !models.ValidReviewStatus(status) {
		apierror.WriteError(w, apierror.Invalid("unknown report status", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := h.Reports.ListByStatus(ctx, status, paging.ParseLimit(r))
	if err != nil {
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	if out == nil {
		out = []models.Report{}
	}
	apierror.WriteOK(w, "", out)
}
