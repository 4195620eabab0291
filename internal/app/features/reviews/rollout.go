// internal/app/features/reviews/rollout.go
package reviews

import (
	"context"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

type rolloutRequest struct {
	ReviewType string `json:"reviewType"`
}

// HandleRollout activates a review phase for the caller's department.
// Idempotent: rolling out an already active phase returns the existing
// rollout with a 200 instead of erroring. There is no rollback.
//
// POST /reviews/rollout
func (h *Handler) HandleRollout(w http.ResponseWriter, r *http.Request) {
	_, dept, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "reviews.rollout", apperr.Unauthorized("unauthorized"))
		return
	}
	if !authz.IsSuperAdmin(r) {
		apperr.Write(w, h.Log, "reviews.rollout", apperr.Forbidden("only super admins can rollout reviews"))
		return
	}

	var req rolloutRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "reviews.rollout: decode", err)
		return
	}
	if !models.ValidReviewType(req.ReviewType) {
		apperr.Write(w, h.Log, "reviews.rollout", apperr.Validation("invalid review type"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rollout, created, err := h.Reviews.CreateRollout(ctx, dept, req.ReviewType, pid)
	if err != nil {
		apperr.Write(w, h.Log, "reviews.rollout", err)
		return
	}
	if created {
		jsonutil.Created(w, rollout)
		return
	}
	jsonutil.OK(w, rollout)
}

// ServeRollout reports whether a phase is rolled out to the caller's
// department.
//
// GET /reviews/rollout/{reviewType}
func (h *Handler) ServeRollout(w http.ResponseWriter, r *http.Request) {
	_, dept, _, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "reviews.rollout.get", apperr.Unauthorized("unauthorized"))
		return
	}
	rt := chi.URLParam(r, "reviewType")
	if !models.ValidReviewType(rt) {
		apperr.Write(w, h.Log, "reviews.rollout.get", apperr.Validation("invalid review type"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rollout, err := h.Reviews.GetRollout(ctx, dept, rt)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, nil)
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "reviews.rollout.get", err)
		return
	}
	jsonutil.OK(w, rollout)
}
