// internal/app/features/preferences/submit.go
package preferences

import (
	"context"
	"errors"
	"net/http"

	preferencestore "github.com/dalemusser/projecthub/internal/app/store/preferences"
	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/app/system/txn"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type submitRequest struct {
	FormID        string   `json:"formId"`
	MentorChoices []string `json:"mentorChoices"`
}

// HandleSubmit records a group's ranked mentor choices and seeds the
// three pending allocations, all in one transaction. Leader only,
// write-once per (group, form).
//
// POST /preferences
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	role, dept, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "preferences.submit", apperr.Unauthorized("unauthorized"))
		return
	}
	if role != models.RoleStudent {
		apperr.Write(w, h.Log, "preferences.submit", apperr.Forbidden("only students can submit mentor preferences"))
		return
	}

	var req submitRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "preferences.submit: decode", err)
		return
	}

	if len(req.MentorChoices) != models.PreferenceChoices {
		apperr.Write(w, h.Log, "preferences.submit", apperr.Validation("exactly 3 mentor choices are required"))
		return
	}
	choices := make([]primitive.ObjectID, 0, models.PreferenceChoices)
	seen := make(map[primitive.ObjectID]bool, models.PreferenceChoices)
	for _, raw := range req.MentorChoices {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			apperr.Write(w, h.Log, "preferences.submit", apperr.Validation("invalid mentor selection"))
			return
		}
		if seen[id] {
			apperr.Write(w, h.Log, "preferences.submit", apperr.Validation("mentor choices must be unique"))
			return
		}
		seen[id] = true
		choices = append(choices, id)
	}
	formID, err := primitive.ObjectIDFromHex(req.FormID)
	if err != nil {
		apperr.Write(w, h.Log, "preferences.submit", apperr.Validation("invalid form id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gid, err := h.Members.GroupIDFor(ctx, pid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "preferences.submit", apperr.Validation("you must be in a group to submit preferences"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "preferences.submit: membership", err)
		return
	}
	g, err := h.Groups.GetByID(ctx, gid)
	if err != nil {
		apperr.Write(w, h.Log, "preferences.submit: group", err)
		return
	}
	if g.CreatedBy != pid {
		apperr.Write(w, h.Log, "preferences.submit", apperr.Forbidden("only the group leader can submit preferences"))
		return
	}

	form, err := h.Forms.GetByID(ctx, formID)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "preferences.submit", apperr.NotFound("mentor allocation form not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "preferences.submit: form", err)
		return
	}
	if !form.IsActive {
		apperr.Write(w, h.Log, "preferences.submit", apperr.Validation("this form is no longer active"))
		return
	}
	if form.Department != dept {
		apperr.Write(w, h.Log, "preferences.submit", apperr.Forbidden("cannot submit to forms from other departments"))
		return
	}
	for _, c := range choices {
		if !form.HasMentor(c) {
			apperr.Write(w, h.Log, "preferences.submit", apperr.Validation("invalid mentor selection"))
			return
		}
	}

	var created models.MentorPreference
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var terr error
		created, terr = h.Preferences.Create(ctx, models.MentorPreference{
			GroupID:     g.ID,
			FormID:      form.ID,
			Choices:     choices,
			SubmittedBy: pid,
		})
		if terr != nil {
			return terr
		}
		_, terr = h.Allocations.CreateBatch(ctx, g.ID, form.ID, choices)
		return terr
	})
	if errors.Is(err, preferencestore.ErrAlreadySubmitted) {
		apperr.Write(w, h.Log, "preferences.submit", apperr.Conflict("preferences already submitted for this group"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "preferences.submit", err)
		return
	}
	jsonutil.Created(w, created)
}
