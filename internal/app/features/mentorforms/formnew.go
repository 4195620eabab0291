// internal/app/features/mentorforms/formnew.go
package mentorforms

import (
	"context"
	"net/http"

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

type createFormRequest struct {
	MentorIDs []string `json:"mentorIds"`
}

// HandleCreateForm opens a new allocation form for the caller's
// department, retiring any previously active one in the same transaction.
//
// POST /mentor-forms
func (h *Handler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	_, dept, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "mentorforms.create", apperr.Unauthorized("unauthorized"))
		return
	}
	if !authz.IsSuperAdmin(r) {
		apperr.Write(w, h.Log, "mentorforms.create", apperr.Forbidden("only super admins can create mentor allocation forms"))
		return
	}

	var req createFormRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "mentorforms.create: decode", err)
		return
	}
	if len(req.MentorIDs) == 0 {
		apperr.Write(w, h.Log, "mentorforms.create", apperr.Validation("please select at least one mentor"))
		return
	}

	mentorIDs := make([]primitive.ObjectID, 0, len(req.MentorIDs))
	seen := make(map[primitive.ObjectID]bool, len(req.MentorIDs))
	for _, raw := range req.MentorIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			apperr.Write(w, h.Log, "mentorforms.create", apperr.Validation("invalid mentor id"))
			return
		}
		if seen[id] {
			apperr.Write(w, h.Log, "mentorforms.create", apperr.Validation("duplicate mentor id"))
			return
		}
		seen[id] = true
		mentorIDs = append(mentorIDs, id)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Every offered mentor must be faculty (or the admin) of this department.
	mentors, err := h.Profiles.ByIDs(ctx, mentorIDs)
	if err != nil {
		apperr.Write(w, h.Log, "mentorforms.create: mentors", err)
		return
	}
	if len(mentors) != len(mentorIDs) {
		apperr.Write(w, h.Log, "mentorforms.create", apperr.Validation("unknown mentor id"))
		return
	}
	for _, m := range mentors {
		if !models.IsMentorRole(m.Role) || m.Department != dept {
			apperr.Write(w, h.Log, "mentorforms.create", apperr.Validation("mentors must be faculty of your department"))
			return
		}
	}

	var created models.MentorForm
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := h.Forms.DeactivateActive(ctx, dept); err != nil {
			return err
		}
		var terr error
		created, terr = h.Forms.Create(ctx, models.MentorForm{
			Department: dept,
			CreatedBy:  pid,
			MentorIDs:  mentorIDs,
		})
		return terr
	})
	if err != nil {
		apperr.Write(w, h.Log, "mentorforms.create", err)
		return
	}
	jsonutil.Created(w, created)
}

// HandleDeactivateForm retires a form. Super admins may only touch forms
// of their own department.
//
// POST /mentor-forms/{id}/deactivate
func (h *Handler) HandleDeactivateForm(w http.ResponseWriter, r *http.Request) {
	_, dept, _, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "mentorforms.deactivate", apperr.Unauthorized("unauthorized"))
		return
	}
	if !authz.IsSuperAdmin(r) {
		apperr.Write(w, h.Log, "mentorforms.deactivate", apperr.Forbidden("only super admins can deactivate forms"))
		return
	}

	fid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Write(w, h.Log, "mentorforms.deactivate", apperr.Validation("invalid form id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	f, err := h.Forms.GetByID(ctx, fid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "mentorforms.deactivate", apperr.NotFound("form not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "mentorforms.deactivate", err)
		return
	}
	if f.Department != dept {
		apperr.Write(w, h.Log, "mentorforms.deactivate", apperr.Forbidden("form belongs to another department"))
		return
	}

	if err := h.Forms.Deactivate(ctx, fid); err != nil {
		apperr.Write(w, h.Log, "mentorforms.deactivate", err)
		return
	}
	jsonutil.OK(w, map[string]bool{"ok": true})
}
