// internal/app/features/topics/routes.go
package topics

import (
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.HandleSubmitTopic)
		pr.Get("/my", h.ServeMyTopics)
		pr.Get("/group/{groupID}", h.ServeGroupTopics)

		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
		pr.Post("/{id}/request-revision", h.HandleRequestRevision)

		pr.Post("/{id}/messages", h.HandleAddMessage)
		pr.Get("/{id}/messages", h.ServeTopicMessages)
	})
	return r
}
