// internal/app/features/mentorforms/reads.go
package mentorforms

import (
	"context"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// formView is a form with its mentor profiles resolved.
type formView struct {
	models.MentorForm
	Mentors []models.Profile `json:"mentors"`
}

// ServeActiveForm returns the active form for the caller's department
// with the offered mentor profiles, or null when no form is open.
//
// GET /mentor-forms/active
func (h *Handler) ServeActiveForm(w http.ResponseWriter, r *http.Request) {
	_, dept, _, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "mentorforms.active", apperr.Unauthorized("unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	f, err := h.Forms.ActiveForDepartment(ctx, dept)
	if err == mongo.ErrNoDocuments {
		jsonutil.OK(w, nil)
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "mentorforms.active", err)
		return
	}

	mentors, err := h.Profiles.ByIDs(ctx, f.MentorIDs)
	if err != nil {
		apperr.Write(w, h.Log, "mentorforms.active: mentors", err)
		return
	}
	jsonutil.OK(w, formView{MentorForm: f, Mentors: mentors})
}
