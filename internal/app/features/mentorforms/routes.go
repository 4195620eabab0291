// internal/app/features/mentorforms/routes.go
package mentorforms

import (
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.HandleCreateForm)
		pr.Post("/{id}/deactivate", h.HandleDeactivateForm)
		pr.Get("/active", h.ServeActiveForm)
	})
	return r
}
