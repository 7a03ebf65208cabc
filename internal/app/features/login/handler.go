// internal/app/features/login/handler.go

// Package login serves password authentication: POST /api/login,
// POST /api/register. Login attempts are rate limited per IP and per
// email before any password work happens.
package login

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/nexushub/nexushub/internal/app/store/users"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/auth"
	"github.com/nexushub/nexushub/internal/app/system/inputval"
	"github.com/nexushub/nexushub/internal/app/system/limits"
	"github.com/nexushub/nexushub/internal/app/system/ratelimit"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the password-auth handlers.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

// NewHandler constructs a login Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		Limiter:    ratelimit.NewLoginLimiter(),
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// sessionView is the user shape returned by login, register, and /api/me.
type sessionView struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func viewOf(u models.User) sessionView {
	return sessionView{
		ID:       u.ID.Hex(),
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// ServeLogin handles POST /api/login. Unknown email and wrong password
// answer with the same message so the endpoint does not confirm which
// accounts exist.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if aerr := inputval.DecodeAndValidate(r, &req, limits.MaxJSONBody); aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	if ok, reason := h.Limiter.Check(r, req.Email); !ok {
		apierror.WriteJSON(w, http.StatusTooManyRequests, apierror.Envelope{
			Status:  "error",
			Message: reason,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierror.WriteError(w, apierror.Unauthorized("invalid email or password"))
			return
		}
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	if !h.Users.VerifyPassword(user, req.Password) {
		h.Log.Info("login failed", zap.String("ip", ratelimit.ClientIP(r)))
		apierror.WriteError(w, apierror.Unauthorized("invalid email or password"))
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user.ID.Hex()); err != nil {
		h.Log.Error("login: session save failed", zap.Error(err))
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	h.Limiter.ResetEmail(req.Email)

	h.Log.Info("user signed in", zap.String("user_id", user.ID.Hex()))
	apierror.WriteOK(w, "signed in", viewOf(user))
}

type registerRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=200"`
}

// ServeRegister handles POST /api/register and signs the new account in.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if aerr := inputval.DecodeAndValidate(r, &req, limits.MaxJSONBody); aerr != nil {
		apierror.WriteError(w, aerr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		FullName: req.FullName,
		Email:    req.Email,
	}, req.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			apierror.WriteError(w, apierror.Conflict(err.Error()))
			return
		}
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user.ID.Hex()); err != nil {
		h.Log.Error("register: session save failed", zap.Error(err))
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}

	h.Log.Info("user registered", zap.String("user_id", user.ID.Hex()))
	apierror.WriteCreated(w, "account created", viewOf(user))
}
