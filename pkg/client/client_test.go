package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDo_DecodesEnvelopeAndData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts/abc/like" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"message": "post liked",
			"data":    map[string]any{"post_id": "abc", "like_count": 4, "liked": true},
		})
	}))
	defer srv.Close()

	api := NewWithHTTPClient(srv.URL, srv.Client())

	res, err := api.LikePost(context.Background(), "abc")
	if err != nil {
		t.Fatalf("LikePost failed: %v", err)
	}
	if res.PostID != "abc" || res.LikeCount != 4 || !res.Liked {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestDo_UnchangedStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "unchanged",
			"message": "you already like this post",
			"data":    map[string]any{"post_id": "abc", "like_count": 4, "liked": true},
		})
	}))
	defer srv.Close()

	api := NewWithHTTPClient(srv.URL, srv.Client())

	env, err := api.BookmarkPost(context.Background(), "abc")
	if err != nil {
		t.Fatalf("expected no error for unchanged, got %v", err)
	}
	if !env.Unchanged() {
		t.Errorf("expected unchanged envelope, got status %q", env.Status)
	}
}

func TestDo_ErrorEnvelopeBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "error",
			"message": "this event is full",
		})
	}))
	defer srv.Close()

	api := NewWithHTTPClient(srv.URL, srv.Client())

	_, err := api.RSVP(context.Background(), "e1")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("status code: got %d, want 409", apiErr.StatusCode)
	}
	if apiErr.Message != "this event is full" {
		t.Errorf("message: got %q", apiErr.Message)
	}
}

func TestDo_ValidationFieldsSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "error",
			"message": "validation failed",
			"errors":  map[string]string{"email": "must be a valid email address"},
		})
	}))
	defer srv.Close()

	api := NewWithHTTPClient(srv.URL, srv.Client())

	_, err := api.Login(context.Background(), "not-an-email", "pw")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Fields["email"] == "" {
		t.Errorf("expected field error for email, got %v", apiErr.Fields)
	}
}
