// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes mounts the password-auth endpoints on the given router.
func Routes(h *Handler, r chi.Router) {
	r.Post("/login", h.ServeLogin)
	r.Post("/register", h.ServeRegister)
}
