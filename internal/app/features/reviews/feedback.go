// internal/app/features/reviews/feedback.go
package reviews

import (
	"context"
	"errors"
	"net/http"

	reviewstore "github.com/dalemusser/projecthub/internal/app/store/reviews"
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

type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

// loadSession fetches the session and authorizes the caller as a mentor.
func (h *Handler) loadSession(ctx context.Context, r *http.Request) (models.ReviewSession, primitive.ObjectID, error) {
	role, _, pid, ok := authz.UserCtx(r)
	if !ok {
		return models.ReviewSession{}, primitive.NilObjectID, apperr.Unauthorized("unauthorized")
	}
	if !models.IsMentorRole(role) {
		return models.ReviewSession{}, primitive.NilObjectID, apperr.Forbidden("faculty access required")
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.ReviewSession{}, primitive.NilObjectID, apperr.Validation("invalid session id")
	}
	sess, err := h.Reviews.GetSessionByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.ReviewSession{}, primitive.NilObjectID, apperr.NotFound("review session not found")
	}
	if err != nil {
		return models.ReviewSession{}, primitive.NilObjectID, err
	}
	return sess, pid, nil
}

// HandleFeedback attaches mentor feedback to a submitted session.
//
// POST /reviews/sessions/{id}/feedback
func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, pid, err := h.loadSession(ctx, r)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.feedback", err)
		return
	}
	if sess.Status == models.SessionCompleted {
		apperr.Write(w, h.Log, "reviews.feedback", apperr.Conflict("review session is already completed"))
		return
	}

	var req feedbackRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "reviews.feedback: decode", err)
		return
	}
	fb := normalize.Text(htmlsanitize.Sanitize(req.Feedback))
	if fb == "" {
		apperr.Write(w, h.Log, "reviews.feedback", apperr.Validation("feedback is required"))
		return
	}

	if err := h.Reviews.GiveFeedback(ctx, sess.ID, fb, pid); err != nil {
		if errors.Is(err, reviewstore.ErrWrongStatus) {
			apperr.Write(w, h.Log, "reviews.feedback", apperr.Conflict("session is not awaiting feedback"))
			return
		}
		apperr.Write(w, h.Log, "reviews.feedback", err)
		return
	}

	sess, err = h.Reviews.GetSessionByID(ctx, sess.ID)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.feedback: reload", err)
		return
	}
	jsonutil.OK(w, sess)
}

// HandleComplete closes a session. Feedback must already have been given;
// completed is terminal.
//
// POST /reviews/sessions/{id}/complete
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, _, err := h.loadSession(ctx, r)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.complete", err)
		return
	}
	switch sess.Status {
	case models.SessionCompleted:
		apperr.Write(w, h.Log, "reviews.complete", apperr.Conflict("review session is already completed"))
		return
	case models.SessionFeedbackGiven:
	default:
		apperr.Write(w, h.Log, "reviews.complete", apperr.Conflict("feedback must be given before completing"))
		return
	}

	if err := h.Reviews.MarkComplete(ctx, sess.ID); err != nil {
		if errors.Is(err, reviewstore.ErrWrongStatus) {
			apperr.Write(w, h.Log, "reviews.complete", apperr.Conflict("feedback must be given before completing"))
			return
		}
		apperr.Write(w, h.Log, "reviews.complete", err)
		return
	}

	sess, err = h.Reviews.GetSessionByID(ctx, sess.ID)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.complete: reload", err)
		return
	}
	jsonutil.OK(w, sess)
}
