// internal/app/features/reviews/pipeline.go
package reviews

import (
	"context"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// phaseSummary is one pipeline entry: the phase, whether it is rolled
// out to the department, whether its gate is open for this group, and
// the session status (not_started when no submission exists).
type phaseSummary struct {
	ReviewType string                `json:"reviewType"`
	RolledOut  bool                  `json:"rolledOut"`
	Unlocked   bool                  `json:"unlocked"`
	Status     string                `json:"status"`
	Session    *models.ReviewSession `json:"session,omitempty"`
}

// ServePipeline summarizes all three phases for the caller's group. The
// unlocked flag is derived server side: review_1 from topic approval,
// each later phase from the previous session being completed.
//
// GET /reviews/pipeline
func (h *Handler) ServePipeline(w http.ResponseWriter, r *http.Request) {
	_, dept, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "reviews.pipeline", apperr.Unauthorized("unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gid, err := h.Members.GroupIDFor(ctx, pid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "reviews.pipeline", apperr.Validation("you must be in a group"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "reviews.pipeline", err)
		return
	}

	rollouts, err := h.Reviews.RolloutsForDepartment(ctx, dept)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.pipeline: rollouts", err)
		return
	}
	rolledOut := make(map[string]bool, len(rollouts))
	for _, ro := range rollouts {
		rolledOut[ro.ReviewType] = true
	}

	out := make([]phaseSummary, 0, len(models.ReviewTypes))
	for _, rt := range models.ReviewTypes {
		ps := phaseSummary{
			ReviewType: rt,
			RolledOut:  rolledOut[rt],
			Status:     models.SessionNotStarted,
		}

		open, _, err := h.phaseGateOpen(ctx, gid, rt)
		if err != nil {
			apperr.Write(w, h.Log, "reviews.pipeline: gate", err)
			return
		}
		ps.Unlocked = open

		sess, err := h.Reviews.GetSession(ctx, gid, rt)
		if err != nil && err != mongo.ErrNoDocuments {
			apperr.Write(w, h.Log, "reviews.pipeline: session", err)
			return
		}
		if err == nil {
			ps.Status = sess.Status
			ps.Session = &sess
		}
		out = append(out, ps)
	}
	jsonutil.OK(w, out)
}
