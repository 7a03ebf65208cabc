// pkg/client/optimistic.go
package client

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned when Perform is invoked for a key whose previous
// toggle has not finished. The optimistic state is not applied twice; the
// caller simply drops the duplicate action.
var ErrInFlight = errors.New("an update for this item is already in flight")

// CommitFunc issues the network call and returns the server's authoritative
// result for reconciliation.
type CommitFunc func(ctx context.Context) (any, error)

// OptimisticController applies a tentative local state change before the
// network round-trip completes, then commits or rolls back based on the
// server response.
//
// For each Perform call: apply runs synchronously before commit is issued;
// if commit fails, revert restores the pre-action snapshot and the commit
// error is returned; if commit succeeds, reconcile receives the server's
// result, because server-computed fields (counts, timestamps) may differ
// from the optimistic guess. At most one toggle per key is in flight at
// once; a second invocation for the same key returns ErrInFlight without
// touching local state or the network.
type OptimisticController struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewOptimisticController returns a ready controller.
func NewOptimisticController() *OptimisticController {
	return &OptimisticController{inFlight: make(map[string]struct{})}
}

// Perform runs one optimistic toggle identified by key (typically
// "entity-kind:entity-id"). apply and revert mutate the caller's local
// state; reconcile folds the server result back in. revert and reconcile
// may be nil.
func (oc *OptimisticController) Perform(ctx context.Context, key string, apply, revert func(), commit CommitFunc, reconcile func(any)) error {
	oc.mu.Lock()
	if _, busy := oc.inFlight[key]; busy {
		oc.mu.Unlock()
		return ErrInFlight
	}
	oc.inFlight[key] = struct{}{}
	oc.mu.Unlock()

	defer func() {
		oc.mu.Lock()
		delete(oc.inFlight, key)
		oc.mu.Unlock()
	}()

	apply()

	result, err := commit(ctx)
	if err != nil {
		if revert != nil {
			revert()
		}
		return err
	}

	if reconcile != nil {
		reconcile(result)
	}
	return nil
}
