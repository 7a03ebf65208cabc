// internal/app/features/logout/handler.go

// Package logout serves POST /api/logout.
package logout

import (
	"net/http"

	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler owns the logout handler.
type Handler struct {
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

// NewHandler constructs a logout Handler.
func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{SessionMgr: sessionMgr, Log: logger}
}

// Serve clears the session cookie. Logging out while not signed in is
// harmless and answers ok.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: session clear failed", zap.Error(err))
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}
	apierror.WriteOK(w, "signed out", nil)
}
