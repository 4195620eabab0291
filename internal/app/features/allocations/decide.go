// internal/app/features/allocations/decide.go
package allocations

import (
	"context"
	"errors"
	"net/http"

	allocationstore "github.com/dalemusser/projecthub/internal/app/store/allocations"
	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/app/system/txn"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// load fetches the allocation and authorizes the caller as its mentor.
func (h *Handler) load(ctx context.Context, r *http.Request) (models.MentorAllocation, primitive.ObjectID, error) {
	role, _, pid, ok := authz.UserCtx(r)
	if !ok {
		return models.MentorAllocation{}, primitive.NilObjectID, apperr.Unauthorized("unauthorized")
	}
	if !models.IsMentorRole(role) {
		return models.MentorAllocation{}, primitive.NilObjectID, apperr.Forbidden("only faculty can decide allocations")
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.MentorAllocation{}, primitive.NilObjectID, apperr.Validation("invalid allocation id")
	}

	a, err := h.Allocations.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.MentorAllocation{}, primitive.NilObjectID, apperr.NotFound("allocation not found")
	}
	if err != nil {
		return models.MentorAllocation{}, primitive.NilObjectID, err
	}
	if a.MentorID != pid {
		return models.MentorAllocation{}, primitive.NilObjectID, apperr.Forbidden("can only decide your own allocations")
	}
	return a, pid, nil
}

// HandleAccept accepts an offer. In one transaction the allocation flips
// to accepted and every other allocation of the group is rejected, which
// is what keeps "at most one accepted mentor per group" true under
// concurrent decisions.
//
// POST /allocations/{id}/accept
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, pid, err := h.load(ctx, r)
	if err != nil {
		apperr.Write(w, h.Log, "allocations.accept", err)
		return
	}
	if a.Status != models.AllocationPending {
		apperr.Write(w, h.Log, "allocations.accept", apperr.Conflict("allocation is not pending"))
		return
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := h.Allocations.Accept(ctx, a.ID, pid); err != nil {
			return err
		}
		return h.Allocations.RejectSiblings(ctx, a.GroupID, a.ID, pid)
	})
	if errors.Is(err, allocationstore.ErrNotPending) {
		apperr.Write(w, h.Log, "allocations.accept", apperr.Conflict("allocation is not pending"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "allocations.accept", err)
		return
	}
	jsonutil.OK(w, map[string]string{"message": "team accepted"})
}

// HandleReject declines a single offer; the group's other allocations are
// untouched.
//
// POST /allocations/{id}/reject
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, pid, err := h.load(ctx, r)
	if err != nil {
		apperr.Write(w, h.Log, "allocations.reject", err)
		return
	}
	if a.Status != models.AllocationPending {
		apperr.Write(w, h.Log, "allocations.reject", apperr.Conflict("allocation is not pending"))
		return
	}

	if err := h.Allocations.Reject(ctx, a.ID, pid); err != nil {
		if errors.Is(err, allocationstore.ErrNotPending) {
			apperr.Write(w, h.Log, "allocations.reject", apperr.Conflict("allocation is not pending"))
			return
		}
		apperr.Write(w, h.Log, "allocations.reject", err)
		return
	}
	jsonutil.OK(w, map[string]string{"message": "team rejected"})
}
