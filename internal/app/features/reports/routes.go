// internal/app/features/reports/routes.go
package reports

import (
	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/auth"
)

// Routes returns the report subrouter, mounted under /api/reports.
// Anyone signed in may file a report; the queue and the review transition
// are restricted to moderators and admins.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)

	r.Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireRole("moderator", "admin"))
		r.Get("/", h.List)
		r.Patch("/{id}/status", h.Review)
	})

	return r
}
