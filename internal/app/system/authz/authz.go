// Package authz reads the session user out of a request and answers the
// role questions handlers ask before touching storage.
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), department, Mongo ObjectID,
// and a found flag. If no user is present or the stored ID is malformed it
// fails closed: ok=true always means a valid, authenticated profile.
func UserCtx(r *http.Request) (role string, department string, profileID primitive.ObjectID, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return "", "", primitive.NilObjectID, false
	}
	return strings.ToLower(u.Role), u.Department, oid, true
}

// IsStudent reports whether the current request's user is a student.
func IsStudent(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleStudent
}

// IsSuperAdmin reports whether the current request's user is the
// department super admin.
func IsSuperAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleSuperAdmin
}

// IsMentor reports whether the current user can act as a mentor
// (faculty or super admin).
func IsMentor(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && models.IsMentorRole(role)
}

// HasAnyRole reports whether the current request's user has any of the
// given roles. Returns false if no user is present.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// UserName returns the current user's display name, or "".
func UserName(r *http.Request) string {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	return u.Name
}
