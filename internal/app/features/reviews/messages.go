// internal/app/features/reviews/messages.go
package reviews

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

// canAccessSession checks thread access: students must belong to the
// session's group, mentors to its department.
func (h *Handler) canAccessSession(ctx context.Context, r *http.Request, sess models.ReviewSession) (bool, error) {
	g, err := h.Groups.GetByID(ctx, sess.GroupID)
	if err != nil {
		return false, err
	}
	return grouppolicy.CanViewGroup(ctx, h.DB, r, g.ID, g.Department)
}

// HandleAddMessage appends a message to a session's discussion thread.
//
// POST /reviews/sessions/{id}/messages
func (h *Handler) HandleAddMessage(w http.ResponseWriter, r *http.Request) {
	role, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "reviews.messages.add", apperr.Unauthorized("unauthorized"))
		return
	}

	sid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Write(w, h.Log, "reviews.messages.add", apperr.Validation("invalid session id"))
		return
	}

	var req addMessageRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "reviews.messages.add: decode", err)
		return
	}
	content := normalize.Text(htmlsanitize.Sanitize(req.Content))
	if content == "" {
		apperr.Write(w, h.Log, "reviews.messages.add", apperr.Validation("message content is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, err := h.Reviews.GetSessionByID(ctx, sid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "reviews.messages.add", apperr.NotFound("review session not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "reviews.messages.add", err)
		return
	}

	allowed, err := h.canAccessSession(ctx, r, sess)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.messages.add: policy", err)
		return
	}
	if !allowed {
		apperr.Write(w, h.Log, "reviews.messages.add", apperr.Forbidden("not a member of this group"))
		return
	}

	m, err := h.Messages.AddReviewMessage(ctx, models.ReviewMessage{
		SessionID:  sid,
		GroupID:    sess.GroupID,
		AuthorID:   pid,
		AuthorName: authz.UserName(r),
		AuthorRole: models.MessageRoleFor(role),
		Content:    content,
		Links:      req.Links,
	})
	if err != nil {
		apperr.Write(w, h.Log, "reviews.messages.add", err)
		return
	}
	jsonutil.Created(w, m)
}

// ServeSessionMessages lists a session's thread in creation order.
//
// GET /reviews/sessions/{id}/messages
func (h *Handler) ServeSessionMessages(w http.ResponseWriter, r *http.Request) {
	sid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Write(w, h.Log, "reviews.messages", apperr.Validation("invalid session id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, err := h.Reviews.GetSessionByID(ctx, sid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "reviews.messages", apperr.NotFound("review session not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "reviews.messages", err)
		return
	}

	allowed, err := h.canAccessSession(ctx, r, sess)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.messages: policy", err)
		return
	}
	if !allowed {
		apperr.Write(w, h.Log, "reviews.messages", apperr.Forbidden("not a member of this group"))
		return
	}

	msgs, err := h.Messages.ReviewThread(ctx, sid)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.messages", err)
		return
	}
	jsonutil.OK(w, msgs)
}
