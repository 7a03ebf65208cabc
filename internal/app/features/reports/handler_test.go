package reports

import (
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/nexushub/nexushub/internal/domain/models"
	"github.com/nexushub/nexushub/internal/testutil"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestReview_ActionTakenFlagsPostAndNotifiesReporter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, testLogger())
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	reporter := f.CreateMember(ctx, "Reporter", "reporter@test.com")
	moderator := f.CreateModerator(ctx, "Mod", "mod@test.com")
	author := f.CreateMember(ctx, "Author", "author@test.com")
	post := f.CreatePost(ctx, "Spammy", author.ID, nil)
	report := f.CreateReport(ctx, reporter.ID, models.ReportTargetPost, post.ID)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPatch,
		"/api/reports/"+report.ID.Hex()+"/status",
		map[string]string{"status": models.ReportActionTaken, "notes": "clear spam"},
		testutil.AsUser(moderator.ID, moderator.FullName, moderator.Email, moderator.Role))
	req = testutil.WithChiURLParam(req, "id", report.ID.Hex())

	rec := testutil.NewRecorder()
	h.Review(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "report reviewed")

	// The upheld report flags the target post.
	var stored struct {
		Flagged bool `bson:"flagged"`
	}
	if err := db.Collection("posts").FindOne(ctx, bson.M{"_id": post.ID}).Decode(&stored); err != nil {
		t.Fatalf("failed to load post: %v", err)
	}
	if !stored.Flagged {
		t.Error("reported post not flagged after action taken")
	}

	// The reporter hears back.
	n, err := db.Collection("notifications").CountDocuments(ctx, bson.M{
		"user_id": reporter.ID,
		"type":    models.NotifyReportReviewed,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Errorf("reporter has %d review notifications, want 1", n)
	}
}

func TestReview_AlreadyReviewedConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, testLogger())
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	reporter := f.CreateMember(ctx, "Reporter", "reporter@test.com")
	moderator := f.CreateModerator(ctx, "Mod", "mod@test.com")
	author := f.CreateMember(ctx, "Author", "author@test.com")
	post := f.CreatePost(ctx, "Disputed", author.ID, nil)
	report := f.CreateReport(ctx, reporter.ID, models.ReportTargetPost, post.ID)

	review := func(status string) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPatch,
			"/api/reports/"+report.ID.Hex()+"/status",
			map[string]string{"status": status},
			testutil.AsUser(moderator.ID, moderator.FullName, moderator.Email, moderator.Role))
		req = testutil.WithChiURLParam(req, "id", report.ID.Hex())
		rec := testutil.NewRecorder()
		h.Review(rec.ResponseRecorder, req)
		return rec
	}

	review(models.ReportNoAction).AssertStatus(t, http.StatusOK)

	// The transition is one-way: a second review is a conflict, not an
	// overwrite.
	rec := review(models.ReportActionTaken)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "already been reviewed")

	var stored struct {
		Status string `bson:"status"`
	}
	if err := db.Collection("reports").FindOne(ctx, bson.M{"_id": report.ID}).Decode(&stored); err != nil {
		t.Fatalf("failed to load report: %v", err)
	}
	if stored.Status != models.ReportNoAction {
		t.Errorf("status = %q after conflicting review, want %q", stored.Status, models.ReportNoAction)
	}
}

func TestReview_InvalidStatusRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, testLogger())
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	reporter := f.CreateMember(ctx, "Reporter", "reporter@test.com")
	moderator := f.CreateModerator(ctx, "Mod", "mod@test.com")
	author := f.CreateMember(ctx, "Author", "author@test.com")
	post := f.CreatePost(ctx, "Fine", author.ID, nil)
	report := f.CreateReport(ctx, reporter.ID, models.ReportTargetPost, post.ID)

	// "pending" is not a legal terminal status.
	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPatch,
		"/api/reports/"+report.ID.Hex()+"/status",
		map[string]string{"status": models.ReportPending},
		testutil.AsUser(moderator.ID, moderator.FullName, moderator.Email, moderator.Role))
	req = testutil.WithChiURLParam(req, "id", report.ID.Hex())

	rec := testutil.NewRecorder()
	h.Review(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestCreate_UnknownTargetRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, testLogger())
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	reporter := f.CreateMember(ctx, "Reporter", "reporter@test.com")

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/api/reports",
		map[string]string{
			"target_type": "post",
			"target_id":   "0123456789abcdef01234567",
			"reason":      "spam",
		},
		testutil.AsUser(reporter.ID, reporter.FullName, reporter.Email, reporter.Role))

	rec := testutil.NewRecorder()
	h.Create(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}
