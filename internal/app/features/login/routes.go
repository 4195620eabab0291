// internal/app/features/login/routes.go
package login

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the auth subrouter. Signup and login are the only
// unauthenticated POST endpoints in the API.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
	return r
}
