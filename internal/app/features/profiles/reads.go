// internal/app/features/profiles/reads.go
package profiles

import (
	"context"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeMe returns the caller's profile, read fresh from storage so role
// or department edits show up without a new login.
//
// GET /profiles/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "profiles.me", apperr.Unauthorized("unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, pid)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "profiles.me", apperr.NotFound("profile not found"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "profiles.me", err)
		return
	}
	jsonutil.OK(w, p)
}

// ServeFaculty lists faculty and super admins of the caller's department,
// the candidate mentor set for allocation forms.
//
// GET /profiles/faculty
func (h *Handler) ServeFaculty(w http.ResponseWriter, r *http.Request) {
	_, dept, _, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, h.Log, "profiles.faculty", apperr.Unauthorized("unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	faculty, err := h.Profiles.FacultyByDepartment(ctx, dept)
	if err != nil {
		apperr.Write(w, h.Log, "profiles.faculty", err)
		return
	}
	jsonutil.OK(w, faculty)
}
