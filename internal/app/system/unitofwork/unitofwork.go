// internal/app/system/unitofwork/unitofwork.go

// Package unitofwork sequences a logical multi-collection write into an
// ordered plan of steps executed strictly sequentially, without a database
// transaction.
//
// A plan is made of four step kinds:
//
//   - precondition: read-only check; any failure aborts the unit before any
//     mutation has been issued.
//   - primary: the single mutation that defines success. It is always an
//     idempotent add-to-set/pull (or guarded) update, so a repeat delivery of
//     the same request is a no-op after the first success.
//   - secondary: a follow-up mutation in a fixed, documented order. Failure
//     is logged and retained; the primary is never rolled back, because a
//     compensating write would introduce its own failure window. The unit
//     reports partial success instead. Remaining secondaries still run; the
//     fixed order makes an interrupted execution idempotently resumable.
//   - emit: a derivative write (notification). Failure is swallowed entirely,
//     logged only.
//
// Context cancellation is honored between steps. Once the primary has been
// issued there is no half-applied state to unwind: it is a single atomic
// update.
package unitofwork

import (
	"context"
	"fmt"

	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"go.uber.org/zap"
)

// StepFunc performs one step of a unit of work.
type StepFunc func(ctx context.Context) error

type stepKind int

const (
	stepPrecondition stepKind = iota
	stepPrimary
	stepSecondary
	stepEmit
)

func (k stepKind) String() string {
	switch k {
	case stepPrecondition:
		return "precondition"
	case stepPrimary:
		return "primary"
	case stepSecondary:
		return "secondary"
	default:
		return "emit"
	}
}

type step struct {
	name string
	kind stepKind
	run  StepFunc
}

// Unit is an ordered plan for one named multi-collection write.
// Build it with the fluent methods, then call Execute exactly once.
type Unit struct {
	name  string
	log   *zap.Logger
	steps []step
}

// New starts a plan for the named unit of work.
func New(name string, logger *zap.Logger) *Unit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Unit{name: name, log: logger}
}

// Precondition appends a read-only check. Preconditions always run before
// any mutation regardless of the order builder methods are called in.
func (u *Unit) Precondition(name string, fn StepFunc) *Unit {
	u.steps = append(u.steps, step{name: name, kind: stepPrecondition, run: fn})
	return u
}

// Primary sets the mutation that defines success. A unit has exactly one.
func (u *Unit) Primary(name string, fn StepFunc) *Unit {
	u.steps = append(u.steps, step{name: name, kind: stepPrimary, run: fn})
	return u
}

// Secondary appends a best-effort follow-up mutation. Order of Secondary
// calls is the execution order and must be the same every time the unit runs.
func (u *Unit) Secondary(name string, fn StepFunc) *Unit {
	u.steps = append(u.steps, step{name: name, kind: stepSecondary, run: fn})
	return u
}

// Emit appends a derivative write whose failure never surfaces to the caller.
func (u *Unit) Emit(name string, fn StepFunc) *Unit {
	u.steps = append(u.steps, step{name: name, kind: stepEmit, run: fn})
	return u
}

// SecondaryFailure records one failed secondary step.
type SecondaryFailure struct {
	Step string
	Err  error
}

// Result describes which steps of a unit of work completed.
type Result struct {
	Unit      string
	Completed []string
	NoOp      bool   // a precondition reported AlreadyInDesiredState
	NoOpMsg   string // its message, for the response body
	Partial   []SecondaryFailure
}

// PartialWarning renders the secondary failures as a user-facing warning,
// or "" when the unit fully succeeded.
func (r Result) PartialWarning() string {
	if len(r.Partial) == 0 {
		return ""
	}
	msg := "the action succeeded, but some follow-up updates did not complete"
	for _, f := range r.Partial {
		msg += "; " + f.Step + " failed"
	}
	return msg
}

// Execute runs the plan in order: all preconditions, the primary, the
// secondaries, then emits. The returned error is non-nil only when the unit
// failed outright (a precondition other than a no-op failed, the primary
// failed, or the context was canceled before the primary was issued).
func (u *Unit) Execute(ctx context.Context) (Result, error) {
	res := Result{Unit: u.name}

	ordered := make([]step, 0, len(u.steps))
	for _, kind := range []stepKind{stepPrecondition, stepPrimary, stepSecondary, stepEmit} {
		for _, s := range u.steps {
			if s.kind == kind {
				ordered = append(ordered, s)
			}
		}
	}

	primaryIssued := false
	for _, s := range ordered {
		// Cancellation can abort the unit cleanly before the primary has
		// been issued. After that, the remaining steps still run so the
		// plan finishes as far as it can; a truly dead context will fail
		// the store calls themselves.
		if !primaryIssued {
			if err := ctx.Err(); err != nil {
				return res, apierror.Unavailable(fmt.Errorf("unit %s canceled: %w", u.name, err))
			}
		}

		err := s.run(ctx)

		switch s.kind {
		case stepPrecondition:
			if err != nil {
				if apierror.IsNoOp(err) {
					u.log.Debug("unit of work: already in desired state",
						zap.String("unit", u.name),
						zap.String("step", s.name))
					res.NoOp = true
					res.NoOpMsg = err.Error()
					return res, nil
				}
				return res, err
			}
		case stepPrimary:
			if err != nil {
				return res, err
			}
			primaryIssued = true
		case stepSecondary:
			if err != nil {
				u.log.Error("unit of work: secondary mutation failed; primary retained",
					zap.String("unit", u.name),
					zap.String("step", s.name),
					zap.Error(err))
				res.Partial = append(res.Partial, SecondaryFailure{Step: s.name, Err: err})
				continue
			}
		case stepEmit:
			if err != nil {
				u.log.Warn("unit of work: emit failed; swallowed",
					zap.String("unit", u.name),
					zap.String("step", s.name),
					zap.Error(err))
				continue
			}
		}

		res.Completed = append(res.Completed, s.name)
	}

	return res, nil
}
