package reportstore

import (
	"testing"

	"github.com/nexushub/nexushub/internal/domain/models"
	"github.com/nexushub/nexushub/internal/testutil"
)

func TestFinalize_PendingOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	reporter := f.CreateMember(ctx, "Reporter", "reporter@test.com")
	moderator := f.CreateModerator(ctx, "Mod", "mod@test.com")
	author := f.CreateMember(ctx, "Author", "author@test.com")
	post := f.CreatePost(ctx, "Reported", author.ID, nil)
	report := f.CreateReport(ctx, reporter.ID, models.ReportTargetPost, post.ID)

	store := New(db)

	applied, err := store.Finalize(ctx, report.ID, models.ReportActionTaken, "spam", moderator.ID)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if !applied {
		t.Fatal("expected first finalize to apply")
	}

	got, err := store.GetByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.ReportActionTaken {
		t.Errorf("status = %q, want %q", got.Status, models.ReportActionTaken)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != moderator.ID {
		t.Error("reviewed_by not recorded")
	}
	if got.ReviewedAt == nil {
		t.Error("reviewed_at not recorded")
	}

	// The transition is one-way: a reviewed report never changes again.
	applied, err = store.Finalize(ctx, report.ID, models.ReportNoAction, "changed my mind", moderator.ID)
	if err != nil {
		t.Fatalf("second Finalize failed: %v", err)
	}
	if applied {
		t.Error("expected finalize on a reviewed report to match nothing")
	}

	got, err = store.GetByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.ReportActionTaken {
		t.Errorf("status changed after second finalize: %q", got.Status)
	}
	if got.ReviewNotes != "spam" {
		t.Errorf("review notes overwritten: %q", got.ReviewNotes)
	}
}

func TestListByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	reporter := f.CreateMember(ctx, "Reporter", "reporter@test.com")
	moderator := f.CreateModerator(ctx, "Mod", "mod@test.com")
	author := f.CreateMember(ctx, "Author", "author@test.com")
	post := f.CreatePost(ctx, "Reported", author.ID, nil)

	first := f.CreateReport(ctx, reporter.ID, models.ReportTargetPost, post.ID)
	f.CreateReport(ctx, reporter.ID, models.ReportTargetUser, author.ID)

	store := New(db)

	if _, err := store.Finalize(ctx, first.ID, models.ReportNoAction, "", moderator.ID); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	pending, err := store.ListByStatus(ctx, models.ReportPending, 50)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending list has %d reports, want 1", len(pending))
	}
	if pending[0].TargetType != models.ReportTargetUser {
		t.Errorf("unexpected pending report: %+v", pending[0])
	}

	reviewed, err := store.ListByStatus(ctx, models.ReportNoAction, 50)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(reviewed) != 1 {
		t.Errorf("reviewed list has %d reports, want 1", len(reviewed))
	}
}
