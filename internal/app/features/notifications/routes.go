// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/auth"
)

// Routes returns the notification subrouter, mounted under
// /api/notifications. All routes require a signed-in user.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)

	r.Get("/", h.List)
	r.Patch("/read-all", h.ReadAll)
	r.Patch("/{id}/read", h.Read)
	r.Delete("/", h.DeleteAll)
	r.Delete("/{id}", h.Delete)

	return r
}
