// internal/app/features/profiles/routes.go
package profiles

import (
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
		pr.Get("/faculty", h.ServeFaculty)
	})
	return r
}
