// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.HandleCreateGroup)
		pr.Post("/join", h.HandleJoinGroup)

		pr.Get("/my", h.ServeMyGroup)
		pr.Get("/department", h.ServeDepartmentGroups)
		pr.Get("/{id}", h.ServeGroup)
	})

	return r
}
