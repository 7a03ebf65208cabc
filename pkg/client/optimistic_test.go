package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// likeState is the local UI state a frontend would keep for one post.
type likeState struct {
	Liked     bool
	LikeCount int
}

func TestPerform_RollsBackOnFailure(t *testing.T) {
	// Like endpoint that always fails.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "error",
			"message": "a database error occurred",
		})
	}))
	defer srv.Close()

	api := NewWithHTTPClient(srv.URL, srv.Client())
	oc := NewOptimisticController()

	state := likeState{Liked: false, LikeCount: 3}
	snapshot := state

	err := oc.Perform(context.Background(), "like:abc",
		func() { state.Liked = true; state.LikeCount++ },
		func() { state = snapshot },
		func(ctx context.Context) (any, error) {
			return api.LikePost(ctx, "abc")
		},
		nil,
	)
	if err == nil {
		t.Fatal("expected commit error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "a database error occurred" {
		t.Errorf("error message: got %q", apiErr.Message)
	}

	// Displayed state must be back to its pre-click values.
	if state != snapshot {
		t.Errorf("state not rolled back: got %+v, want %+v", state, snapshot)
	}
}

func TestPerform_ReconcilesWithServerResult(t *testing.T) {
	// Server reports a like count higher than the optimistic guess (another
	// user liked concurrently).
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"message": "post liked",
			"data":    map[string]any{"post_id": "abc", "like_count": 6, "liked": true},
		})
	}))
	defer srv.Close()

	api := NewWithHTTPClient(srv.URL, srv.Client())
	oc := NewOptimisticController()

	state := likeState{Liked: false, LikeCount: 3}

	err := oc.Perform(context.Background(), "like:abc",
		func() { state.Liked = true; state.LikeCount++ },
		func() {},
		func(ctx context.Context) (any, error) {
			return api.LikePost(ctx, "abc")
		},
		func(result any) {
			res := result.(LikeResult)
			state.LikeCount = res.LikeCount
			state.Liked = res.Liked
		},
	)
	if err != nil {
		t.Fatalf("Perform failed: %v", err)
	}

	if state.LikeCount != 6 {
		t.Errorf("like count not reconciled: got %d, want 6", state.LikeCount)
	}
	if !state.Liked {
		t.Error("expected liked state after reconcile")
	}
}

func TestPerform_SecondInvocationSameKeyReturnsErrInFlight(t *testing.T) {
	oc := NewOptimisticController()

	release := make(chan struct{})
	started := make(chan struct{})
	applies := 0

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = oc.Perform(context.Background(), "bookmark:xyz",
			func() { applies++ },
			nil,
			func(ctx context.Context) (any, error) {
				close(started)
				<-release
				return nil, nil
			},
			nil,
		)
	}()

	<-started

	// Rapid double-click: second call for the same key while the first is
	// still on the wire.
	err := oc.Perform(context.Background(), "bookmark:xyz",
		func() { applies++ },
		nil,
		func(ctx context.Context) (any, error) {
			t.Error("duplicate commit issued")
			return nil, nil
		},
		nil,
	)
	if !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}

	close(release)
	wg.Wait()

	if applies != 1 {
		t.Errorf("optimistic apply ran %d times, want 1", applies)
	}
}

func TestPerform_DifferentKeysRunIndependently(t *testing.T) {
	oc := NewOptimisticController()

	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = oc.Perform(context.Background(), "like:a",
			func() {},
			nil,
			func(ctx context.Context) (any, error) {
				close(started)
				<-release
				return nil, nil
			},
			nil,
		)
	}()

	<-started

	err := oc.Perform(context.Background(), "like:b",
		func() {},
		nil,
		func(ctx context.Context) (any, error) { return nil, nil },
		nil,
	)
	if err != nil {
		t.Fatalf("independent key blocked: %v", err)
	}

	close(release)
	wg.Wait()
}

func TestPerform_KeyReusableAfterCompletion(t *testing.T) {
	oc := NewOptimisticController()

	commit := func(ctx context.Context) (any, error) { return nil, nil }

	if err := oc.Perform(context.Background(), "rsvp:e1", func() {}, nil, commit, nil); err != nil {
		t.Fatalf("first Perform failed: %v", err)
	}
	// Toggling back after the first call completed must be allowed.
	if err := oc.Perform(context.Background(), "rsvp:e1", func() {}, nil, commit, nil); err != nil {
		t.Fatalf("second Perform failed: %v", err)
	}
}

func TestPerform_KeyReleasedAfterFailure(t *testing.T) {
	oc := NewOptimisticController()

	failing := func(ctx context.Context) (any, error) { return nil, errors.New("network down") }

	if err := oc.Perform(context.Background(), "like:p1", func() {}, func() {}, failing, nil); err == nil {
		t.Fatal("expected commit error")
	}

	// A failed toggle must not leave the key stuck in flight.
	ok := func(ctx context.Context) (any, error) { return nil, nil }
	if err := oc.Perform(context.Background(), "like:p1", func() {}, nil, ok, nil); err != nil {
		t.Fatalf("key stuck after failure: %v", err)
	}
}
