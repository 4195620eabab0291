// internal/app/features/topics/reads.go
package topics

import (
	"context"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeMyTopics lists the caller's group's topics, newest first.
//
// GET /topics/my
func (h *Handler) ServeMyTopics(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "topics.my", apperr.Unauthorized("unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	gid, err := h.Members.GroupIDFor(ctx, pid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "topics.my", apperr.Validation("you must be in a group"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "topics.my", err)
		return
	}

	ts, err := h.Topics.ByGroup(ctx, gid)
	if err != nil {
		apperr.Write(w, h.Log, "topics.my", err)
		return
	}
	jsonutil.OK(w, ts)
}

// ServeGroupTopics lists another group's topics for its mentors.
//
// GET /topics/group/{groupID}
func (h *Handler) ServeGroupTopics(w http.ResponseWriter, r *http.Request) {
	gid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		apperr.Write(w, h.Log, "topics.group", apperr.Validation("invalid group id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, gid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "topics.group", apperr.NotFound("group not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "topics.group", err)
		return
	}

	allowed, err := grouppolicy.CanViewGroup(ctx, h.DB, r, g.ID, g.Department)
	if err != nil {
		apperr.Write(w, h.Log, "topics.group: policy", err)
		return
	}
	if !allowed {
		apperr.Write(w, h.Log, "topics.group", apperr.Forbidden("not a member of this group"))
		return
	}

	ts, err := h.Topics.ByGroup(ctx, gid)
	if err != nil {
		apperr.Write(w, h.Log, "topics.group", err)
		return
	}
	jsonutil.OK(w, ts)
}
