// internal/app/features/events/routes.go
package events

import (
	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/auth"
)

// Routes returns the event subrouter, mounted under /api/events.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Post("/", h.Create)
		r.Post("/{id}/rsvp", h.RSVP)
		r.Delete("/{id}/rsvp", h.CancelRSVP)
	})

	return r
}
