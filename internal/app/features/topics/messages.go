// internal/app/features/topics/messages.go
package topics

import (
	"context"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/normalize"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type addMessageRequest struct {
	Content string   `json:"content"`
	Links   []string `json:"links,omitempty"`
}

// canAccessTopic checks that the caller may touch the topic's thread:
// students must belong to the topic's group, mentors to its department.
func (h *Handler) canAccessTopic(ctx context.Context, r *http.Request, t models.ProjectTopic) (bool, error) {
	g, err := h.Groups.GetByID(ctx, t.GroupID)
	if err != nil {
		return false, err
	}
	return grouppolicy.CanViewGroup(ctx, h.DB, r, g.ID, g.Department)
}

// HandleAddMessage appends a message to a topic's discussion thread.
//
// POST /topics/{id}/messages
func (h *Handler) HandleAddMessage(w http.ResponseWriter, r *http.Request) {
	role, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "topics.messages.add", apperr.Unauthorized("unauthorized"))
		return
	}

	tid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Write(w, h.Log, "topics.messages.add", apperr.Validation("invalid topic id"))
		return
	}

	var req addMessageRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "topics.messages.add: decode", err)
		return
	}
	content := normalize.Text(htmlsanitize.Sanitize(req.Content))
	if content == "" {
		apperr.Write(w, h.Log, "topics.messages.add", apperr.Validation("message content is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Topics.GetByID(ctx, tid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "topics.messages.add", apperr.NotFound("topic not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "topics.messages.add", err)
		return
	}

	allowed, err := h.canAccessTopic(ctx, r, t)
	if err != nil {
		apperr.Write(w, h.Log, "topics.messages.add: policy", err)
		return
	}
	if !allowed {
		apperr.Write(w, h.Log, "topics.messages.add", apperr.Forbidden("not a member of this group"))
		return
	}

	m, err := h.Messages.AddTopicMessage(ctx, models.TopicMessage{
		TopicID:    &tid,
		GroupID:    t.GroupID,
		AuthorID:   pid,
		AuthorName: authz.UserName(r),
		AuthorRole: models.MessageRoleFor(role),
		Content:    content,
		Links:      req.Links,
	})
	if err != nil {
		apperr.Write(w, h.Log, "topics.messages.add", err)
		return
	}
	jsonutil.Created(w, m)
}

// ServeTopicMessages lists a topic's thread in creation order.
//
// GET /topics/{id}/messages
func (h *Handler) ServeTopicMessages(w http.ResponseWriter, r *http.Request) {
	tid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Write(w, h.Log, "topics.messages", apperr.Validation("invalid topic id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Topics.GetByID(ctx, tid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "topics.messages", apperr.NotFound("topic not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "topics.messages", err)
		return
	}

	allowed, err := h.canAccessTopic(ctx, r, t)
	if err != nil {
		apperr.Write(w, h.Log, "topics.messages: policy", err)
		return
	}
	if !allowed {
		apperr.Write(w, h.Log, "topics.messages", apperr.Forbidden("not a member of this group"))
		return
	}

	msgs, err := h.Messages.TopicThread(ctx, tid)
	if err != nil {
		apperr.Write(w, h.Log, "topics.messages", err)
		return
	}
	jsonutil.OK(w, msgs)
}
