// internal/app/features/communities/routes.go
package communities

import (
	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/auth"
)

// Routes returns the community subrouter, mounted under /api/communities.
// Reads are public; everything that mutates requires a signed-in user.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Post("/", h.Create)
		r.Post("/{id}/members", h.Join)
		r.Delete("/{id}/members", h.Leave)
		r.Post("/{id}/requests", h.ReviewRequest)
	})

	return r
}
