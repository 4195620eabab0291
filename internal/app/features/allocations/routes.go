// internal/app/features/allocations/routes.go
package allocations

import (
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/{id}/accept", h.HandleAccept)
		pr.Post("/{id}/reject", h.HandleReject)

		pr.Get("/mentor", h.ServeForMentor)
		pr.Get("/group", h.ServeForGroup)
		pr.Get("/status", h.ServeStatus)
		pr.Get("/accepted-mentor", h.ServeAcceptedMentor)
		pr.Get("/accepted-teams", h.ServeAcceptedTeams)
	})
	return r
}
