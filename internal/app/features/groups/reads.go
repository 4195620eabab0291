// internal/app/features/groups/reads.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// groupView is a group with its member profiles resolved, the shape
// every group read returns.
type groupView struct {
	models.Group
	Members []models.Profile `json:"members"`
}

// departmentGroupView adds the allocation detail flags the admin
// dashboard shows per group.
type departmentGroupView struct {
	groupView
	HasSubmittedPreferences bool    `json:"hasSubmittedPreferences"`
	MentorAssigned          *string `json:"mentorAssigned"`
}

func (h *Handler) groupView(ctx context.Context, g models.Group) (groupView, error) {
	members, err := h.Members.MembersOf(ctx, g.ID)
	if err != nil {
		return groupView{}, err
	}
	ids := make([]primitive.ObjectID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ProfileID)
	}
	profiles, err := h.Profiles.ByIDs(ctx, ids)
	if err != nil {
		return groupView{}, err
	}
	return groupView{Group: g, Members: profiles}, nil
}

// ServeMyGroup returns the caller's group, or null when they have none.
//
// GET /groups/my
func (h *Handler) ServeMyGroup(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "groups.my", apperr.Unauthorized("unauthorized"))
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
		apperr.Write(w, h.Log, "groups.my", err)
		return
	}

	g, err := h.Groups.GetByID(ctx, gid)
	if err != nil {
		apperr.Write(w, h.Log, "groups.my: load", err)
		return
	}
	view, err := h.groupView(ctx, g)
	if err != nil {
		apperr.Write(w, h.Log, "groups.my: view", err)
		return
	}
	jsonutil.OK(w, view)
}

// ServeGroup returns one group by id. Students can only read their own
// group; mentors can read groups of their department.
//
// GET /groups/{id}
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	gid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Write(w, h.Log, "groups.get", apperr.Validation("invalid group id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, gid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "groups.get", apperr.NotFound("group not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "groups.get", err)
		return
	}

	allowed, err := grouppolicy.CanViewGroup(ctx, h.DB, r, g.ID, g.Department)
	if err != nil {
		apperr.Write(w, h.Log, "groups.get: policy", err)
		return
	}
	if !allowed {
		apperr.Write(w, h.Log, "groups.get", apperr.Forbidden("not a member of this group"))
		return
	}

	view, err := h.groupView(ctx, g)
	if err != nil {
		apperr.Write(w, h.Log, "groups.get: view", err)
		return
	}
	jsonutil.OK(w, view)
}

// ServeDepartmentGroups lists the caller's department groups with the
// per-group allocation flags. Mentors only.
//
// GET /groups/department
func (h *Handler) ServeDepartmentGroups(w http.ResponseWriter, r *http.Request) {
	role, dept, _, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "groups.department", apperr.Unauthorized("unauthorized"))
		return
	}
	if !models.IsMentorRole(role) {
		apperr.Write(w, h.Log, "groups.department", apperr.Forbidden("faculty access required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gs, err := h.Groups.ByDepartment(ctx, dept)
	if err != nil {
		apperr.Write(w, h.Log, "groups.department", err)
		return
	}

	out := make([]departmentGroupView, 0, len(gs))
	for _, g := range gs {
		view, err := h.groupView(ctx, g)
		if err != nil {
			apperr.Write(w, h.Log, "groups.department: view", err)
			return
		}
		dv := departmentGroupView{groupView: view}

		allocs, err := h.Allocations.ForGroup(ctx, g.ID)
		if err != nil {
			apperr.Write(w, h.Log, "groups.department: allocations", err)
			return
		}
		dv.HasSubmittedPreferences = len(allocs) > 0
		for _, a := range allocs {
			if a.Status != models.AllocationAccepted {
				continue
			}
			mentor, err := h.Profiles.GetByID(ctx, a.MentorID)
			if err != nil && err != mongo.ErrNoDocuments {
				apperr.Write(w, h.Log, "groups.department: mentor", err)
				return
			}
			if err == nil {
				name := mentor.Name
				dv.MentorAssigned = &name
			}
			break
		}
		out = append(out, dv)
	}
	jsonutil.OK(w, out)
}
