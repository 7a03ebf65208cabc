// Package client is a Go client for the NexusHub API. It carries the
// session cookie issued at login, decodes the server's response envelope,
// and exposes typed helpers for the toggle-style actions the
// OptimisticController drives.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Envelope mirrors the JSON body of every API response. Status is "ok" for
// fresh mutations, "unchanged" for idempotent no-ops, and "error" for
// failures.
type Envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Warning string            `json:"warning,omitempty"`
	Data    json.RawMessage   `json:"data,omitempty"`
}

// Unchanged reports whether the server answered an idempotent no-op.
func (e *Envelope) Unchanged() bool { return e.Status == "unchanged" }

// APIError is a non-success response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to a NexusHub server. The zero value is not usable; call New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the server at baseURL. The client keeps a cookie
// jar so the session cookie from Login is sent on later calls.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// NewWithHTTPClient builds a client using the provided http.Client, for
// tests and callers that need custom transports.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// do issues a request and decodes the envelope. A non-2xx response or a
// status of "error" is returned as an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 || env.Status == "error" {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    env.Message,
			Fields:     env.Errors,
		}
	}
	return &env, nil
}

// decodeData unmarshals the envelope's data field into dst when both are
// present.
func decodeData(env *Envelope, dst any) error {
	if dst == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, dst)
}

// Session is the signed-in user as returned by login and /api/me.
type Session struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Login signs in with email and password. The session cookie is stored on
// the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	env, err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Session{}, err
	}
	return s, decodeData(env, &s)
}

// Logout signs the current session out.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/logout", nil)
	return err
}

// Me returns the current signed-in user.
func (c *Client) Me(ctx context.Context) (Session, error) {
	var s Session
	env, err := c.do(ctx, http.MethodGet, "/api/me", nil)
	if err != nil {
		return Session{}, err
	}
	return s, decodeData(env, &s)
}

// LikeResult is the authoritative like state after a like or unlike.
type LikeResult struct {
	PostID    string `json:"post_id"`
	LikeCount int    `json:"like_count"`
	Liked     bool   `json:"liked"`
}

// LikePost likes a post and returns the server's authoritative count.
func (c *Client) LikePost(ctx context.Context, postID string) (LikeResult, error) {
	return c.setLike(ctx, http.MethodPost, postID)
}

// UnlikePost removes a like.
func (c *Client) UnlikePost(ctx context.Context, postID string) (LikeResult, error) {
	return c.setLike(ctx, http.MethodDelete, postID)
}

func (c *Client) setLike(ctx context.Context, method, postID string) (LikeResult, error) {
	var out LikeResult
	env, err := c.do(ctx, method, "/api/posts/"+url.PathEscape(postID)+"/like", nil)
	if err != nil {
		return LikeResult{}, err
	}
	return out, decodeData(env, &out)
}

// BookmarkPost adds the post to the user's bookmarks.
func (c *Client) BookmarkPost(ctx context.Context, postID string) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/bookmark", nil)
}

// UnbookmarkPost removes the post from the user's bookmarks.
func (c *Client) UnbookmarkPost(ctx context.Context, postID string) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/unbookmark", nil)
}

// JoinCommunity requests or gains membership. Public communities answer
// with an immediate join; private ones queue a pending request.
func (c *Client) JoinCommunity(ctx context.Context, communityID string) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/api/communities/"+url.PathEscape(communityID)+"/members", nil)
}

// LeaveCommunity removes the current user (or userID, when the caller is an
// admin) from the community.
func (c *Client) LeaveCommunity(ctx context.Context, communityID, userID string) (*Envelope, error) {
	path := "/api/communities/" + url.PathEscape(communityID) + "/members"
	if userID != "" {
		path += "?userId=" + url.QueryEscape(userID)
	}
	return c.do(ctx, http.MethodDelete, path, nil)
}

// RSVP reserves a spot at an event.
func (c *Client) RSVP(ctx context.Context, eventID string) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/api/events/"+url.PathEscape(eventID)+"/rsvp", nil)
}

// CancelRSVP releases the user's spot.
func (c *Client) CancelRSVP(ctx context.Context, eventID string) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(eventID)+"/rsvp", nil)
}
