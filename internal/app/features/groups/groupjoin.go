// internal/app/features/groups/groupjoin.go
package groups

import (
	"context"
	"errors"
	"net/http"

	memberstore "github.com/dalemusser/projecthub/internal/app/store/members"
	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/normalize"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/app/system/txn"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type joinRequest struct {
	TeamCode string `json:"teamCode"`
}

// HandleJoinGroup adds the caller to the group matching the team code.
//
// POST /groups/join
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
	role, dept, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "groups.join", apperr.Unauthorized("unauthorized"))
		return
	}
	if role != models.RoleStudent {
		apperr.Write(w, h.Log, "groups.join", apperr.Forbidden("only students can join groups"))
		return
	}

	var req joinRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "groups.join: decode", err)
		return
	}
	code := normalize.TeamCode(req.TeamCode)
	if code == "" {
		apperr.Write(w, h.Log, "groups.join", apperr.Validation("team code is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Groups.GetByTeamCode(ctx, code)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "groups.join", apperr.NotFound("group not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "groups.join: lookup", err)
		return
	}

	if g.Department != dept {
		apperr.Write(w, h.Log, "groups.join", apperr.Validation("can only join groups from your department"))
		return
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		n, err := h.Members.CountOf(ctx, g.ID)
		if err != nil {
			return err
		}
		if n >= models.MaxGroupSize {
			return apperr.Validation("group is full (max 3 members)")
		}
		if err := h.Members.Add(ctx, g.ID, pid, dept); err != nil {
			return err
		}
		if n+1 >= models.MaxGroupSize {
			return h.Groups.SetFull(ctx, g.ID, true)
		}
		return nil
	})
	if errors.Is(err, memberstore.ErrAlreadyInGroup) {
		apperr.Write(w, h.Log, "groups.join", apperr.Conflict("you are already a member of a group"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "groups.join", err)
		return
	}

	g, err = h.Groups.GetByID(ctx, g.ID)
	if err != nil {
		apperr.Write(w, h.Log, "groups.join: reload", err)
		return
	}
	view, err := h.groupView(ctx, g)
	if err != nil {
		apperr.Write(w, h.Log, "groups.join: view", err)
		return
	}
	jsonutil.OK(w, view)
}
