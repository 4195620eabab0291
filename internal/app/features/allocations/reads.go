// internal/app/features/allocations/reads.go
package allocations

import (
	"context"
	"net/http"
	"sort"

	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// mentorAllocationView is an allocation with its group resolved for the
// mentor's inbox.
type mentorAllocationView struct {
	models.MentorAllocation
	Group        models.Group     `json:"group"`
	GroupMembers []models.Profile `json:"groupMembers"`
}

// groupAllocationView is an allocation with its mentor resolved for the
// student side.
type groupAllocationView struct {
	models.MentorAllocation
	Mentor models.Profile `json:"mentor"`
}

func (h *Handler) mentorViews(ctx context.Context, allocs []models.MentorAllocation) ([]mentorAllocationView, error) {
	out := make([]mentorAllocationView, 0, len(allocs))
	for _, a := range allocs {
		g, err := h.Groups.GetByID(ctx, a.GroupID)
		if err != nil {
			return nil, err
		}
		members, err := h.Members.MembersOf(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		ids := make([]primitive.ObjectID, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ProfileID)
		}
		profiles, err := h.Profiles.ByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		out = append(out, mentorAllocationView{
			MentorAllocation: a,
			Group:            g,
			GroupMembers:     profiles,
		})
	}
	return out, nil
}

// ServeForMentor lists the acting mentor's allocations, pending offers
// first, then by preference rank.
//
// GET /allocations/mentor
func (h *Handler) ServeForMentor(w http.ResponseWriter, r *http.Request) {
	role, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "allocations.mentor", apperr.Unauthorized("unauthorized"))
		return
	}
	if !models.IsMentorRole(role) {
		apperr.Write(w, h.Log, "allocations.mentor", apperr.Forbidden("only faculty can view allocations"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allocs, err := h.Allocations.ForMentor(ctx, pid)
	if err != nil {
		apperr.Write(w, h.Log, "allocations.mentor", err)
		return
	}
	sort.SliceStable(allocs, func(i, j int) bool {
		pi, pj := allocs[i].Status == models.AllocationPending, allocs[j].Status == models.AllocationPending
		if pi != pj {
			return pi
		}
		return allocs[i].PreferenceRank < allocs[j].PreferenceRank
	})

	views, err := h.mentorViews(ctx, allocs)
	if err != nil {
		apperr.Write(w, h.Log, "allocations.mentor: views", err)
		return
	}
	jsonutil.OK(w, views)
}

// ServeForGroup lists the caller's group's allocations in rank order,
// with mentor profiles. Empty when the caller has no group.
//
// GET /allocations/group
func (h *Handler) ServeForGroup(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "allocations.group", apperr.Unauthorized("unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gid, err := h.Members.GroupIDFor(ctx, pid)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, []groupAllocationView{})
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "allocations.group", err)
		return
	}

	allocs, err := h.Allocations.ForGroup(ctx, gid)
	if err != nil {
		apperr.Write(w, h.Log, "allocations.group", err)
		return
	}
	sort.SliceStable(allocs, func(i, j int) bool {
		return allocs[i].PreferenceRank < allocs[j].PreferenceRank
	})

	out := make([]groupAllocationView, 0, len(allocs))
	for _, a := range allocs {
		mentor, err := h.Profiles.GetByID(ctx, a.MentorID)
		if err != nil && err != mongo.ErrNoDocuments {
			apperr.Write(w, h.Log, "allocations.group: mentor", err)
			return
		}
		out = append(out, groupAllocationView{MentorAllocation: a, Mentor: mentor})
	}
	jsonutil.OK(w, out)
}

// mentorStatusResponse is the derived allocation status for the caller's
// group.
type mentorStatusResponse struct {
	Status     string `json:"status"`
	MentorName string `json:"mentorName,omitempty"`
	MentorID   string `json:"mentorId,omitempty"`
}

// ServeStatus derives the caller's group allocation status: no_group,
// not_submitted, accepted, pending, or all_rejected, with accepted
// taking precedence over pending.
//
// GET /allocations/status
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "allocations.status", apperr.Unauthorized("unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	gid, err := h.Members.GroupIDFor(ctx, pid)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, mentorStatusResponse{Status: models.MentorStatusNoGroup})
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "allocations.status", err)
		return
	}

	allocs, err := h.Allocations.ForGroup(ctx, gid)
	if err != nil {
		apperr.Write(w, h.Log, "allocations.status", err)
		return
	}
	if len(allocs) == 0 {
		jsonutil.OK(w, mentorStatusResponse{Status: models.MentorStatusNotSubmitted})
		return
	}

	pending := false
	for _, a := range allocs {
		switch a.Status {
		case models.AllocationAccepted:
			resp := mentorStatusResponse{
				Status:   models.MentorStatusAccepted,
				MentorID: a.MentorID.Hex(),
			}
			mentor, merr := h.Profiles.GetByID(ctx, a.MentorID)
			if merr == nil {
				resp.MentorName = mentor.Name
			}
			jsonutil.OK(w, resp)
			return
		case models.AllocationPending:
			pending = true
		}
	}
	if pending {
		jsonutil.OK(w, mentorStatusResponse{Status: models.MentorStatusPending})
		return
	}
	jsonutil.OK(w, mentorStatusResponse{Status: models.MentorStatusAllRejected})
}

// ServeAcceptedMentor returns the mentor who accepted the caller's
// group, or null.
//
// GET /allocations/accepted-mentor
func (h *Handler) ServeAcceptedMentor(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "allocations.accepted-mentor", apperr.Unauthorized("unauthorized"))
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
		apperr.Write(w, h.Log, "allocations.accepted-mentor", err)
		return
	}

	a, err := h.Allocations.AcceptedForGroup(ctx, gid)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, nil)
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "allocations.accepted-mentor", err)
		return
	}
	mentor, err := h.Profiles.GetByID(ctx, a.MentorID)
	if err != nil {
		apperr.Write(w, h.Log, "allocations.accepted-mentor: mentor", err)
		return
	}
	jsonutil.OK(w, map[string]any{"mentor": mentor, "status": models.AllocationAccepted})
}

// ServeAcceptedTeams lists the groups the acting mentor has accepted.
//
// GET /allocations/accepted-teams
func (h *Handler) ServeAcceptedTeams(w http.ResponseWriter, r *http.Request) {
	role, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "allocations.accepted-teams", apperr.Unauthorized("unauthorized"))
		return
	}
	if !models.IsMentorRole(role) {
		apperr.Write(w, h.Log, "allocations.accepted-teams", apperr.Forbidden("only faculty can view accepted teams"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allocs, err := h.Allocations.AcceptedForMentor(ctx, pid)
	if err != nil {
		apperr.Write(w, h.Log, "allocations.accepted-teams", err)
		return
	}
	views, err := h.mentorViews(ctx, allocs)
	if err != nil {
		apperr.Write(w, h.Log, "allocations.accepted-teams: views", err)
		return
	}
	jsonutil.OK(w, views)
}
