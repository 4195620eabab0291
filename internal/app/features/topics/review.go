// internal/app/features/topics/review.go
package topics

import (
	"context"
	"net/http"

	topicstore "github.com/dalemusser/projecthub/internal/app/store/topics"
	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/normalize"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/app/system/txn"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// loadForReview fetches the topic and authorizes the caller as a mentor.
func (h *Handler) loadForReview(ctx context.Context, r *http.Request) (models.ProjectTopic, primitive.ObjectID, error) {
	role, _, pid, ok := authz.UserCtx(r)
	if !ok {
		return models.ProjectTopic{}, primitive.NilObjectID, apperr.Unauthorized("unauthorized")
	}
	if !models.IsMentorRole(role) {
		return models.ProjectTopic{}, primitive.NilObjectID, apperr.Forbidden("only faculty can review topics")
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.ProjectTopic{}, primitive.NilObjectID, apperr.Validation("invalid topic id")
	}
	t, err := h.Topics.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.ProjectTopic{}, primitive.NilObjectID, apperr.NotFound("topic not found")
	}
	if err != nil {
		return models.ProjectTopic{}, primitive.NilObjectID, err
	}
	return t, pid, nil
}

// HandleApprove approves a topic. In one transaction the topic becomes
// approved and every other open proposal of the group is rejected, so a
// group never holds two approved topics.
//
// POST /topics/{id}/approve
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, pid, err := h.loadForReview(ctx, r)
	if err != nil {
		apperr.Write(w, h.Log, "topics.approve", err)
		return
	}
	if t.Status == models.TopicApproved {
		apperr.Write(w, h.Log, "topics.approve", apperr.Conflict("topic is already approved"))
		return
	}
	approved, err := h.Topics.HasApproved(ctx, t.GroupID)
	if err != nil {
		apperr.Write(w, h.Log, "topics.approve: check", err)
		return
	}
	if approved {
		apperr.Write(w, h.Log, "topics.approve", apperr.Conflict("group already has an approved topic"))
		return
	}

	from := []string{models.TopicSubmitted, models.TopicUnderReview, models.TopicRevisionRequested}
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := h.Topics.SetStatus(ctx, t.ID, from, models.TopicApproved, pid); err != nil {
			return err
		}
		return h.Topics.RejectOpenSiblings(ctx, t.GroupID, t.ID, pid)
	})
	if err == topicstore.ErrWrongStatus {
		apperr.Write(w, h.Log, "topics.approve", apperr.Conflict("topic is not open for approval"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "topics.approve", err)
		return
	}

	t, err = h.Topics.GetByID(ctx, t.ID)
	if err != nil {
		apperr.Write(w, h.Log, "topics.approve: reload", err)
		return
	}
	jsonutil.OK(w, t)
}

// HandleReject rejects a topic.
//
// POST /topics/{id}/reject
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, pid, err := h.loadForReview(ctx, r)
	if err != nil {
		apperr.Write(w, h.Log, "topics.reject", err)
		return
	}
	if t.Status == models.TopicRejected {
		apperr.Write(w, h.Log, "topics.reject", apperr.Conflict("topic is already rejected"))
		return
	}

	from := []string{models.TopicSubmitted, models.TopicUnderReview, models.TopicApproved, models.TopicRevisionRequested}
	if err := h.Topics.SetStatus(ctx, t.ID, from, models.TopicRejected, pid); err != nil {
		if err == topicstore.ErrWrongStatus {
			apperr.Write(w, h.Log, "topics.reject", apperr.Conflict("topic is already rejected"))
			return
		}
		apperr.Write(w, h.Log, "topics.reject", err)
		return
	}

	t, err = h.Topics.GetByID(ctx, t.ID)
	if err != nil {
		apperr.Write(w, h.Log, "topics.reject: reload", err)
		return
	}
	jsonutil.OK(w, t)
}

type revisionRequest struct {
	Feedback string `json:"feedback,omitempty"`
}

// HandleRequestRevision flags a topic for rework. Feedback, when present,
// lands on the topic's thread as a faculty message.
//
// POST /topics/{id}/request-revision
func (h *Handler) HandleRequestRevision(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, pid, err := h.loadForReview(ctx, r)
	if err != nil {
		apperr.Write(w, h.Log, "topics.revision", err)
		return
	}

	var req revisionRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "topics.revision: decode", err)
		return
	}

	from := []string{models.TopicSubmitted, models.TopicUnderReview, models.TopicRevisionRequested}
	if err := h.Topics.SetStatus(ctx, t.ID, from, models.TopicRevisionRequested, pid); err != nil {
		if err == topicstore.ErrWrongStatus {
			apperr.Write(w, h.Log, "topics.revision", apperr.Conflict("topic is not open for revision"))
			return
		}
		apperr.Write(w, h.Log, "topics.revision", err)
		return
	}

	if fb := normalize.Text(htmlsanitize.Sanitize(req.Feedback)); fb != "" {
		tid := t.ID
		_, err := h.Messages.AddTopicMessage(ctx, models.TopicMessage{
			TopicID:    &tid,
			GroupID:    t.GroupID,
			AuthorID:   pid,
			AuthorName: authz.UserName(r),
			AuthorRole: models.AuthorFaculty,
			Content:    fb,
		})
		if err != nil {
			apperr.Write(w, h.Log, "topics.revision: feedback message", err)
			return
		}
	}

	t, err = h.Topics.GetByID(ctx, t.ID)
	if err != nil {
		apperr.Write(w, h.Log, "topics.revision: reload", err)
		return
	}
	jsonutil.OK(w, t)
}
