package unitofwork

import (
	"context"
	"errors"
	"testing"

	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"go.uber.org/zap"
)

func noopStep(calls *[]string, name string) StepFunc {
	return func(ctx context.Context) error {
		*calls = append(*calls, name)
		return nil
	}
}

func failStep(calls *[]string, name string, err error) StepFunc {
	return func(ctx context.Context) error {
		*calls = append(*calls, name)
		return err
	}
}

func TestExecute_RunsStepsInDeclaredOrder(t *testing.T) {
	var calls []string

	// Declared out of order on purpose: preconditions must still run first,
	// then the primary, then secondaries, then emits.
	u := New("test-unit", zap.NewNop()).
		Emit("notify", noopStep(&calls, "notify")).
		Secondary("reciprocal", noopStep(&calls, "reciprocal")).
		Primary("main", noopStep(&calls, "main")).
		Precondition("exists", noopStep(&calls, "exists"))

	res, err := u.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []string{"exists", "main", "reciprocal", "notify"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
	if len(res.Completed) != 4 {
		t.Errorf("Completed = %v, want 4 steps", res.Completed)
	}
	if len(res.Partial) != 0 || res.NoOp {
		t.Errorf("unexpected partial/no-op flags in %+v", res)
	}
}

func TestExecute_PreconditionFailureMutatesNothing(t *testing.T) {
	var calls []string
	boom := apierror.NotFound("community not found")

	u := New("join", zap.NewNop()).
		Precondition("community exists", failStep(&calls, "check", boom)).
		Primary("add member", noopStep(&calls, "primary")).
		Secondary("reciprocal", noopStep(&calls, "secondary"))

	_, err := u.Execute(context.Background())
	if err == nil {
		t.Fatal("expected error from failed precondition")
	}
	var ae *apierror.Error
	if !errors.As(err, &ae) || ae.Kind != apierror.KindNotFound {
		t.Errorf("err = %v, want NotFound", err)
	}
	if len(calls) != 1 {
		t.Errorf("calls = %v, want only the precondition", calls)
	}
}

func TestExecute_NoOpPreconditionIsSuccess(t *testing.T) {
	var calls []string

	u := New("join", zap.NewNop()).
		Precondition("not already a member", failStep(&calls, "check", apierror.NoOp("already a member"))).
		Primary("add member", noopStep(&calls, "primary"))

	res, err := u.Execute(context.Background())
	if err != nil {
		t.Fatalf("no-op should not be an error, got %v", err)
	}
	if !res.NoOp {
		t.Error("expected NoOp result")
	}
	if res.NoOpMsg != "already a member" {
		t.Errorf("NoOpMsg = %q", res.NoOpMsg)
	}
	if len(calls) != 1 {
		t.Errorf("calls = %v, primary must not run on no-op", calls)
	}
}

func TestExecute_PrimaryFailureStopsUnit(t *testing.T) {
	var calls []string
	boom := errors.New("write failed")

	u := New("rsvp", zap.NewNop()).
		Primary("add rsvp", failStep(&calls, "primary", boom)).
		Secondary("reciprocal", noopStep(&calls, "secondary")).
		Emit("notify", noopStep(&calls, "emit"))

	_, err := u.Execute(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if len(calls) != 1 {
		t.Errorf("calls = %v, nothing may run after a failed primary", calls)
	}
}

func TestExecute_SecondaryFailureRetainsPrimary(t *testing.T) {
	var calls []string
	boom := errors.New("user update failed")

	u := New("approve", zap.NewNop()).
		Primary("move member", noopStep(&calls, "primary")).
		Secondary("reciprocal community_ids", failStep(&calls, "sec1", boom)).
		Secondary("second follow-up", noopStep(&calls, "sec2")).
		Emit("notify", noopStep(&calls, "emit"))

	res, err := u.Execute(context.Background())
	if err != nil {
		t.Fatalf("secondary failure must not fail the unit: %v", err)
	}
	if len(res.Partial) != 1 {
		t.Fatalf("Partial = %+v, want one failure", res.Partial)
	}
	if res.Partial[0].Step != "reciprocal community_ids" {
		t.Errorf("failed step = %q", res.Partial[0].Step)
	}
	// Later secondaries and emits still run.
	want := []string{"primary", "sec1", "sec2", "emit"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	if res.PartialWarning() == "" {
		t.Error("expected a partial-success warning")
	}
}

func TestExecute_EmitFailureIsSwallowed(t *testing.T) {
	var calls []string

	u := New("review", zap.NewNop()).
		Primary("finalize", noopStep(&calls, "primary")).
		Emit("notify reporter", failStep(&calls, "emit", errors.New("insert failed")))

	res, err := u.Execute(context.Background())
	if err != nil {
		t.Fatalf("emit failure must be swallowed: %v", err)
	}
	if len(res.Partial) != 0 {
		t.Errorf("emit failure must not count as partial: %+v", res.Partial)
	}
	if res.PartialWarning() != "" {
		t.Errorf("unexpected warning %q", res.PartialWarning())
	}
}

func TestExecute_CancelBeforePrimary(t *testing.T) {
	var calls []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := New("join", zap.NewNop()).
		Precondition("exists", noopStep(&calls, "check")).
		Primary("add member", noopStep(&calls, "primary"))

	_, err := u.Execute(ctx)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if len(calls) != 0 {
		t.Errorf("calls = %v, canceled unit must not run steps", calls)
	}
}

func TestExecute_CancelAfterPrimaryDoesNotUnissue(t *testing.T) {
	var calls []string
	ctx, cancel := context.WithCancel(context.Background())

	u := New("like", zap.NewNop()).
		Primary("add like", func(c context.Context) error {
			calls = append(calls, "primary")
			cancel() // caller gives up mid-unit
			return nil
		}).
		Secondary("follow-up", noopStep(&calls, "secondary"))

	res, err := u.Execute(ctx)
	if err != nil {
		t.Fatalf("cancellation after the primary must not fail the unit: %v", err)
	}
	want := []string{"primary", "secondary"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	if len(res.Completed) != 2 {
		t.Errorf("Completed = %v", res.Completed)
	}
}
