// internal/app/features/preferences/routes.go
package preferences

import (
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.HandleSubmit)
		pr.Get("/my", h.ServeMyPreferences)
		pr.Get("/submitted", h.ServeHasSubmitted)
		pr.Get("/group/{groupID}", h.ServeGroupPreferences)
	})
	return r
}
