// internal/app/features/login/signup.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	profilestore "github.com/dalemusser/projecthub/internal/app/store/profiles"
	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/normalize"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

type signupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
	RollNumber string `json:"rollNumber,omitempty"`
	Semester   int    `json:"semester,omitempty"`
	AccessCode string `json:"accessCode,omitempty"`
}

const minPasswordLen = 8

// HandleSignup creates a profile and signs the caller in.
//
// POST /auth/signup
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "signup: decode", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.signup(ctx, req)
	if err != nil {
		apperr.Write(w, h.Log, "signup", err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, sessionFor(p)); err != nil {
		apperr.Write(w, h.Log, "signup: session", err)
		return
	}
	jsonutil.Created(w, p)
}

func (h *Handler) signup(ctx context.Context, req signupRequest) (models.Profile, error) {
	name := normalize.Text(req.Name)
	email := normalize.Email(req.Email)
	role := strings.ToLower(normalize.Text(req.Role))
	dept := normalize.Department(req.Department)

	if name == "" {
		return models.Profile{}, apperr.Validation("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return models.Profile{}, apperr.Validation("a valid email is required")
	}
	if len(req.Password) < minPasswordLen {
		return models.Profile{}, apperr.Validation("password must be at least 8 characters")
	}
	switch role {
	case models.RoleStudent, models.RoleFaculty, models.RoleSuperAdmin:
	default:
		return models.Profile{}, apperr.Validation("invalid role")
	}
	if !models.ValidDepartment(dept) {
		return models.Profile{}, apperr.Validation("invalid department")
	}

	p := models.Profile{
		Name:       name,
		Email:      email,
		Role:       role,
		Department: dept,
	}

	switch role {
	case models.RoleStudent:
		p.RollNumber = normalize.Text(req.RollNumber)
		p.Semester = req.Semester
		if p.RollNumber == "" {
			return models.Profile{}, apperr.Validation("roll number is required for students")
		}
		if p.Semester < 1 || p.Semester > 8 {
			return models.Profile{}, apperr.Validation("semester must be between 1 and 8")
		}
	case models.RoleSuperAdmin:
		if req.AccessCode == "" || h.accessCodes[dept] != req.AccessCode {
			return models.Profile{}, apperr.Validation("invalid coordinator access code")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Profile{}, err
	}
	p.PasswordHash = string(hash)

	created, err := h.Profiles.Create(ctx, p)
	if err != nil {
		if errors.Is(err, profilestore.ErrDuplicateEmail) {
			return models.Profile{}, apperr.Conflict("a profile with this email already exists")
		}
		return models.Profile{}, err
	}
	return created, nil
}
