// internal/app/features/authgoogle/handler.go

// Package authgoogle serves Google sign-in: GET /api/auth/google/login
// redirects to the consent screen, GET /api/auth/google/callback exchanges
// the code, provisions an account on first sign-in, and opens a session.
package authgoogle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	userstore "github.com/nexushub/nexushub/internal/app/store/users"
	"github.com/nexushub/nexushub/internal/app/system/auth"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const stateCookie = "nexushub-oauth-state"

// Handler handles Google OAuth sign-in.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string
	// FrontendURL is where the browser lands after the callback.
	FrontendURL string
}

// NewHandler constructs a Google OAuth handler. baseURL is this server's
// public URL; frontendURL is the browser app's origin.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, clientID, clientSecret, baseURL, frontendURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        userstore.New(db),
		SessionMgr:   sessionMgr,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/api/auth/google/callback",
		FrontendURL:  frontendURL,
	}
}

// IsConfigured reports whether Google sign-in is usable.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// ServeLogin handles GET /api/auth/google/login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("google sign-in requested but not configured")
		h.redirectWithError(w, r, "google_not_configured")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /api/auth/google/callback.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("google sign-in denied", zap.String("error", errParam))
		h.redirectWithError(w, r, "google_denied")
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookie)
	if state == "" || err != nil || cookie.Value != state {
		h.Log.Warn("google sign-in: state mismatch")
		h.redirectWithError(w, r, "invalid_state")
		return
	}
	// The state is single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/api/auth/google", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectWithError(w, r, "invalid_code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("google sign-in: code exchange failed", zap.Error(err))
		h.redirectWithError(w, r, "token_exchange")
		return
	}

	info, err := fetchUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("google sign-in: userinfo fetch failed", zap.Error(err))
		h.redirectWithError(w, r, "user_info")
		return
	}
	if info.Email == "" || !info.EmailVerified {
		h.redirectWithError(w, r, "email_unverified")
		return
	}

	user, err := h.findOrCreate(ctx, info)
	if err != nil {
		h.Log.Error("google sign-in: account lookup failed", zap.Error(err))
		h.redirectWithError(w, r, "internal")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user.ID.Hex()); err != nil {
		h.Log.Error("google sign-in: session save failed", zap.Error(err))
		h.redirectWithError(w, r, "session")
		return
	}

	h.Log.Info("user signed in via google", zap.String("user_id", user.ID.Hex()))
	http.Redirect(w, r, h.FrontendURL+"/", http.StatusSeeOther)
}

// findOrCreate matches the Google identity to an account by email,
// provisioning one on first sign-in.
func (h *Handler) findOrCreate(ctx context.Context, info *userInfo) (models.User, error) {
	user, err := h.Users.GetByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, err
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}
	user, err = h.Users.CreateOAuth(ctx, models.User{
		FullName: name,
		Email:    info.Email,
	}, "google")
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Lost a race with a concurrent first sign-in.
		return h.Users.GetByEmail(ctx, info.Email)
	}
	return user, err
}

type userInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func fetchUserInfo(ctx context.Context, token *oauth2.Token) (*userInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}
	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

func (h *Handler) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.FrontendURL+"/login?error="+code, http.StatusSeeOther)
}
