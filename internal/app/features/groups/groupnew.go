// internal/app/features/groups/groupnew.go
package groups

import (
	"context"
	"errors"
	"net/http"

	groupstore "github.com/dalemusser/projecthub/internal/app/store/groups"
	memberstore "github.com/dalemusser/projecthub/internal/app/store/members"
	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/app/system/txn"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// teamCodeAttempts bounds the retry loop on the rare duplicate code.
const teamCodeAttempts = 5

// HandleCreateGroup creates a new group with the caller as leader and
// first member.
//
// POST /groups
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	role, dept, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "groups.create", apperr.Unauthorized("unauthorized"))
		return
	}
	if role != models.RoleStudent {
		apperr.Write(w, h.Log, "groups.create", apperr.Forbidden("only students can create groups"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if gid, err := h.Members.GroupIDFor(ctx, pid); err != nil && err != mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "groups.create: membership check", err)
		return
	} else if err == nil && gid != primitive.NilObjectID {
		apperr.Write(w, h.Log, "groups.create", apperr.Conflict("you are already a member of a group"))
		return
	}

	serial, err := h.Groups.NextSerial(ctx, dept)
	if err != nil {
		apperr.Write(w, h.Log, "groups.create: serial", err)
		return
	}

	var created models.Group
	for attempt := 0; attempt < teamCodeAttempts; attempt++ {
		code, err := groupstore.NewTeamCode()
		if err != nil {
			apperr.Write(w, h.Log, "groups.create: team code", err)
			return
		}
		g := models.Group{
			DisplayID:  groupstore.DisplayID(dept, serial),
			TeamCode:   code,
			Department: dept,
			CreatedBy:  pid,
		}
		err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
			var terr error
			created, terr = h.Groups.Create(ctx, g)
			if terr != nil {
				return terr
			}
			return h.Members.Add(ctx, created.ID, pid, dept)
		})
		if errors.Is(err, groupstore.ErrDuplicateTeamCode) {
			continue
		}
		if errors.Is(err, memberstore.ErrAlreadyInGroup) {
			apperr.Write(w, h.Log, "groups.create", apperr.Conflict("you are already a member of a group"))
			return
		}
		if err != nil {
			apperr.Write(w, h.Log, "groups.create", err)
			return
		}
		view, err := h.groupView(ctx, created)
		if err != nil {
			apperr.Write(w, h.Log, "groups.create: view", err)
			return
		}
		jsonutil.Created(w, view)
		return
	}
	apperr.Write(w, h.Log, "groups.create", errors.New("could not allocate a unique team code"))
}
