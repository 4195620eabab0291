// internal/app/features/reviews/routes.go
package reviews

import (
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/rollout", h.HandleRollout)
		pr.Get("/rollout/{reviewType}", h.ServeRollout)
		pr.Get("/pipeline", h.ServePipeline)

		pr.Post("/{reviewType}/progress", h.HandleSubmitProgress)
		pr.Get("/{reviewType}/session", h.ServeMySession)
		pr.Get("/{reviewType}/session/{groupID}", h.ServeGroupSession)

		pr.Post("/sessions/{id}/feedback", h.HandleFeedback)
		pr.Post("/sessions/{id}/complete", h.HandleComplete)
		pr.Post("/sessions/{id}/messages", h.HandleAddMessage)
		pr.Get("/sessions/{id}/messages", h.ServeSessionMessages)
	})
	return r
}
