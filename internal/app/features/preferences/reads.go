// internal/app/features/preferences/reads.go
package preferences

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

// ServeMyPreferences returns the caller's group's submission for the
// department's active form, or null when none exists.
//
// GET /preferences/my
func (h *Handler) ServeMyPreferences(w http.ResponseWriter, r *http.Request) {
	_, dept, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "preferences.my", apperr.Unauthorized("unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	gid, err := h.Members.GroupIDFor(ctx, pid)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, nil)
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "preferences.my", err)
		return
	}

	form, err := h.Forms.ActiveForDepartment(ctx, dept)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, nil)
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "preferences.my: form", err)
		return
	}

	p, err := h.Preferences.GetByGroupAndForm(ctx, gid, form.ID)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, nil)
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "preferences.my", err)
		return
	}
	jsonutil.OK(w, p)
}

// ServeHasSubmitted reports whether the caller's group has submitted for
// the active form. Groups with no membership or no open form read false.
//
// GET /preferences/submitted
func (h *Handler) ServeHasSubmitted(w http.ResponseWriter, r *http.Request) {
	_, dept, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "preferences.submitted", apperr.Unauthorized("unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	submitted := false
	gid, err := h.Members.GroupIDFor(ctx, pid)
	if err != nil && err != mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "preferences.submitted", err)
		return
	}
	if err == nil {
		form, ferr := h.Forms.ActiveForDepartment(ctx, dept)
		if ferr != nil && ferr != mongo.ErrNoDocuments {
			apperr.Write(w, h.Log, "preferences.submitted: form", ferr)
			return
		}
		if ferr == nil {
			submitted, err = h.Preferences.Exists(ctx, gid, form.ID)
			if err != nil {
				apperr.Write(w, h.Log, "preferences.submitted", err)
				return
			}
		}
	}
	jsonutil.OK(w, map[string]bool{"hasSubmitted": submitted})
}

// ServeGroupPreferences returns a group's submission. Mentors of the
// group's department and the group's own members may read it.
//
// GET /preferences/group/{groupID}
func (h *Handler) ServeGroupPreferences(w http.ResponseWriter, r *http.Request) {
	gid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		apperr.Write(w, h.Log, "preferences.group", apperr.Validation("invalid group id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, gid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "preferences.group", apperr.NotFound("group not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "preferences.group", err)
		return
	}

	allowed, err := grouppolicy.CanViewGroup(ctx, h.DB, r, g.ID, g.Department)
	if err != nil {
		apperr.Write(w, h.Log, "preferences.group: policy", err)
		return
	}
	if !allowed {
		apperr.Write(w, h.Log, "preferences.group", apperr.Forbidden("not a member of this group"))
		return
	}

	form, err := h.Forms.ActiveForDepartment(ctx, g.Department)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, nil)
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "preferences.group: form", err)
		return
	}

	p, err := h.Preferences.GetByGroupAndForm(ctx, gid, form.ID)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, nil)
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "preferences.group", err)
		return
	}
	jsonutil.OK(w, p)
}
