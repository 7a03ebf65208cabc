// internal/app/features/reports/review.go
package reports

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

type reviewRequest struct {
	Status string `json:"status" validate:"required,oneof=reviewed_action_taken reviewed_no_action"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// Review handles PATCH /api/reports/{id}/status.
//
// The transition is one-way: only a pending report can be finalized, and
// the pending guard lives in the store's update filter, so two concurrent
// reviews cannot both win. The loser answers 409. When action is taken on
// a reported post, the post is flagged as the secondary mutation; the
// reporter is notified with a best-effort summary of the target that
// degrades to a generic label when the target is gone.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	_, _, reviewerID, ok := authz.UserCtx(r)
	if !ok {
		apierror.WriteError(w, apierror.Unauthorized("you must be signed in"))
		return
	}

	reportID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("malformed report id", nil))
		return
	}

	var req reviewRequest
	if aerr := inputval.DecodeAndValidate(r, &req, limits.MaxJSONBody); aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var report models.Report
	actionTaken := req.Status == models.ReportActionTaken
	emitter := notify.NewEmitter(h.Notifications, h.Log)

	unit := unitofwork.New("report review", h.Log).
		Precondition("load report", func(ctx context.Context) error {
			rep, err := h.Reports.GetByID(ctx, reportID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return apierror.NotFound("report not found")
				}
				return apierror.Unavailable(err)
			}
			if rep.Status != models.ReportPending {
				return apierror.Conflict("this report has already been reviewed")
			}
			report = rep
			return nil
		}).
		Primary("finalize status", func(ctx context.Context) error {
			applied, err := h.Reports.Finalize(ctx, reportID, req.Status, req.Notes, reviewerID)
			if err != nil {
				return apierror.Unavailable(err)
			}
			if !applied {
				return apierror.Conflict("this report has already been reviewed")
			}
			return nil
		}).
		Secondary("flag reported post", func(ctx context.Context) error {
			if !actionTaken || report.TargetType != models.ReportTargetPost {
				return nil
			}
			return h.Posts.SetFlag(ctx, report.TargetID, true, "report upheld: "+report.Reason)
		}).
		Emit("notify reporter", func(ctx context.Context) error {
			summary := h.targetSummary(ctx, report)
			msg := "No action was taken on your report about " + summary
			if actionTaken {
				msg = "Action was taken on your report about " + summary
			}
			return emitter.Emit(ctx, models.Notification{
				UserID:          report.ReporterID,
				ActorID:         &reviewerID,
				Type:            models.NotifyReportReviewed,
				Title:           "Report reviewed",
				Message:         msg,
				RelatedEntityID: &reportID,
			})
		})

	res, err := unit.Execute(ctx)
	if err != nil {
		apierror.WriteError(w, err)
		return
	}
	if warning := res.PartialWarning(); warning != "" {
		apierror.WritePartial(w, "report reviewed", warning, nil)
		return
	}
	apierror.WriteOK(w, "report reviewed", nil)
}

// targetSummary describes the report target for the reporter's
// notification. Lookup failures (including a target deleted since the
// report was filed) degrade to a generic label rather than failing the
// emit.
func (h *Handler) targetSummary(ctx context.Context, report models.Report) string {
	switch report.TargetType {
	case models.ReportTargetPost:
		if p, err := h.Posts.GetByID(ctx, report.TargetID); err == nil {
			return "the post \"" + p.Title + "\""
		}
		return "a post"
	case models.ReportTargetComment:
		if c, err := h.Comments.GetByID(ctx, report.TargetID); err == nil {
			return "a comment (\"" + snippet(c.Body) + "\")"
		}
		return "a comment"
	case models.ReportTargetUser:
		if u, err := h.Users.GetByID(ctx, report.TargetID); err == nil {
			return "the user " + u.FullName
		}
		return "a user"
	}
	return "the reported content"
}

func snippet(s string) string {
	const max = 60
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
