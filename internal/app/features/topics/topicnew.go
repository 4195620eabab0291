// internal/app/features/topics/topicnew.go
package topics

import (
	"context"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/normalize"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type submitTopicRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HandleSubmitTopic proposes a topic for the caller's group. A group with
// an approved topic is done proposing, and a group is limited to
// MaxOpenTopics non-rejected proposals at a time.
//
// POST /topics
func (h *Handler) HandleSubmitTopic(w http.ResponseWriter, r *http.Request) {
	role, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "topics.submit", apperr.Unauthorized("unauthorized"))
		return
	}
	if role != models.RoleStudent {
		apperr.Write(w, h.Log, "topics.submit", apperr.Forbidden("only students can submit topics"))
		return
	}

	var req submitTopicRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "topics.submit: decode", err)
		return
	}
	title := normalize.Text(htmlsanitize.StripTags(req.Title))
	desc := normalize.Text(htmlsanitize.Sanitize(req.Description))
	if title == "" {
		apperr.Write(w, h.Log, "topics.submit", apperr.Validation("title is required"))
		return
	}
	if desc == "" {
		apperr.Write(w, h.Log, "topics.submit", apperr.Validation("description is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gid, err := h.Members.GroupIDFor(ctx, pid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "topics.submit", apperr.Validation("you must be in a group to submit a topic"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "topics.submit: membership", err)
		return
	}

	approved, err := h.Topics.HasApproved(ctx, gid)
	if err != nil {
		apperr.Write(w, h.Log, "topics.submit: approved check", err)
		return
	}
	if approved {
		apperr.Write(w, h.Log, "topics.submit", apperr.Conflict("your group already has an approved topic"))
		return
	}

	open, err := h.Topics.CountOpen(ctx, gid)
	if err != nil {
		apperr.Write(w, h.Log, "topics.submit: open count", err)
		return
	}
	if open >= models.MaxOpenTopics {
		apperr.Write(w, h.Log, "topics.submit", apperr.Validation("your group already has 3 topics under consideration"))
		return
	}

	t, err := h.Topics.Create(ctx, models.ProjectTopic{
		GroupID:     gid,
		Title:       title,
		Description: desc,
		SubmittedBy: pid,
	})
	if err != nil {
		apperr.Write(w, h.Log, "topics.submit", err)
		return
	}
	jsonutil.Created(w, t)
}
