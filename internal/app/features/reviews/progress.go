// internal/app/features/reviews/progress.go
package reviews

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
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type submitProgressRequest struct {
	ProgressPercentage  int    `json:"progressPercentage"`
	ProgressDescription string `json:"progressDescription"`
}

// phaseGateOpen checks the previous gate for a phase: review_1 needs an
// approved topic, later phases need the previous session completed.
func (h *Handler) phaseGateOpen(ctx context.Context, groupID primitive.ObjectID, reviewType string) (bool, string, error) {
	prev := models.PreviousReviewType(reviewType)
	if prev == "" {
		approved, err := h.Topics.HasApproved(ctx, groupID)
		if err != nil {
			return false, "", err
		}
		if !approved {
			return false, "your group needs an approved topic before review 1", nil
		}
		return true, "", nil
	}

	sess, err := h.Reviews.GetSession(ctx, groupID, prev)
	if err == mongo.ErrNoDocuments {
		return false, "previous review is not completed yet", nil
	}
	if err != nil {
		return false, "", err
	}
	if sess.Status != models.SessionCompleted {
		return false, "previous review is not completed yet", nil
	}
	return true, "", nil
}

// HandleSubmitProgress records (or re-records) a group's progress for a
// phase. Leader only; the phase must be rolled out and its gate open. A
// resubmission keeps the same session id and resets status to submitted.
//
// POST /reviews/{reviewType}/progress
func (h *Handler) HandleSubmitProgress(w http.ResponseWriter, r *http.Request) {
	role, dept, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "reviews.progress", apperr.Unauthorized("unauthorized"))
		return
	}
	if role != models.RoleStudent {
		apperr.Write(w, h.Log, "reviews.progress", apperr.Forbidden("only students can submit progress"))
		return
	}

	rt := chi.URLParam(r, "reviewType")
	if !models.ValidReviewType(rt) {
		apperr.Write(w, h.Log, "reviews.progress", apperr.Validation("invalid review type"))
		return
	}

	var req submitProgressRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "reviews.progress: decode", err)
		return
	}
	if req.ProgressPercentage < 0 || req.ProgressPercentage > 100 {
		apperr.Write(w, h.Log, "reviews.progress", apperr.Validation("progress percentage must be between 0 and 100"))
		return
	}
	desc := normalize.Text(htmlsanitize.Sanitize(req.ProgressDescription))
	if desc == "" {
		apperr.Write(w, h.Log, "reviews.progress", apperr.Validation("progress description is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gid, err := h.Members.GroupIDFor(ctx, pid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "reviews.progress", apperr.Validation("you must be in a group"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "reviews.progress: membership", err)
		return
	}
	g, err := h.Groups.GetByID(ctx, gid)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.progress: group", err)
		return
	}
	if g.CreatedBy != pid {
		apperr.Write(w, h.Log, "reviews.progress", apperr.Forbidden("only group leader can submit progress"))
		return
	}

	if _, err := h.Reviews.GetRollout(ctx, dept, rt); err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "reviews.progress", apperr.Validation("this review has not been rolled out yet"))
		return
	} else if err != nil {
		apperr.Write(w, h.Log, "reviews.progress: rollout", err)
		return
	}

	open, reason, err := h.phaseGateOpen(ctx, gid, rt)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.progress: gate", err)
		return
	}
	if !open {
		apperr.Write(w, h.Log, "reviews.progress", apperr.Validation(reason))
		return
	}

	sess, err := h.Reviews.UpsertSubmission(ctx, gid, rt, req.ProgressPercentage, desc, pid)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.progress", err)
		return
	}
	jsonutil.OK(w, sess)
}

// ServeMySession reports the caller's group's session for a phase. When
// no submission exists the response carries the explicit not_started
// status rather than an empty body.
//
// GET /reviews/{reviewType}/session
func (h *Handler) ServeMySession(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "reviews.session", apperr.Unauthorized("unauthorized"))
		return
	}
	rt := chi.URLParam(r, "reviewType")
	if !models.ValidReviewType(rt) {
		apperr.Write(w, h.Log, "reviews.session", apperr.Validation("invalid review type"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	gid, err := h.Members.GroupIDFor(ctx, pid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "reviews.session", apperr.Validation("you must be in a group"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "reviews.session", err)
		return
	}

	sess, err := h.Reviews.GetSession(ctx, gid, rt)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, map[string]string{"status": models.SessionNotStarted, "reviewType": rt})
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "reviews.session", err)
		return
	}
	jsonutil.OK(w, sess)
}

// ServeGroupSession reports another group's session for its mentors.
//
// GET /reviews/{reviewType}/session/{groupID}
func (h *Handler) ServeGroupSession(w http.ResponseWriter, r *http.Request) {
	role, dept, _, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "reviews.group-session", apperr.Unauthorized("unauthorized"))
		return
	}
	if !models.IsMentorRole(role) {
		apperr.Write(w, h.Log, "reviews.group-session", apperr.Forbidden("faculty access required"))
		return
	}
	rt := chi.URLParam(r, "reviewType")
	if !models.ValidReviewType(rt) {
		apperr.Write(w, h.Log, "reviews.group-session", apperr.Validation("invalid review type"))
		return
	}
	gid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		apperr.Write(w, h.Log, "reviews.group-session", apperr.Validation("invalid group id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, gid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "reviews.group-session", apperr.NotFound("group not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "reviews.group-session", err)
		return
	}
	if role != models.RoleSuperAdmin && g.Department != dept {
		apperr.Write(w, h.Log, "reviews.group-session", apperr.Forbidden("group belongs to another department"))
		return
	}

	sess, err := h.Reviews.GetSession(ctx, gid, rt)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, map[string]string{"status": models.SessionNotStarted, "reviewType": rt})
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "reviews.group-session", err)
		return
	}
	jsonutil.OK(w, sess)
}
