// internal/app/features/posts/routes.go
package posts

import (
	"github.com/go-chi/chi/v5"
	"github.com/nexushub/nexushub/internal/app/system/auth"
)

// Routes returns the post subrouter, mounted under /api/posts.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.Get)
	r.Get("/{id}/comments", h.ListComments)

	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/like", h.Like)
		r.Delete("/{id}/like", h.Unlike)
		r.Post("/{id}/bookmark", h.Bookmark)
		r.Post("/{id}/unbookmark", h.Unbookmark)
		r.Post("/{id}/comments", h.CreateComment)
	})

	return r
}
