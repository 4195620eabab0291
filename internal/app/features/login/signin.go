// internal/app/features/login/signin.go
package login

import (
	"context"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/dalemusser/projecthub/internal/app/system/jsonutil"
	"github.com/dalemusser/projecthub/internal/app/system/normalize"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin checks credentials and establishes a session.
//
// POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		apperr.Write(w, h.Log, "login: decode", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	email := normalize.Email(req.Email)
	p, err := h.Profiles.GetByEmail(ctx, email)
	if err == mongo.ErrNoDocuments {
		apperr.Write(w, h.Log, "login", apperr.Unauthorized("invalid email or password"))
		return
	}
	if err != nil {
		apperr.Write(w, h.Log, "login: lookup", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		apperr.Write(w, h.Log, "login", apperr.Unauthorized("invalid email or password"))
		return
	}

	if err := h.SessionMgr.SignIn(w, r, sessionFor(p)); err != nil {
		apperr.Write(w, h.Log, "login: session", err)
		return
	}
	jsonutil.OK(w, p)
}

// HandleLogout clears the session.
//
// POST /auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.SessionMgr.SignOut(w, r)
	jsonutil.OK(w, map[string]bool{"ok": true})
}

func sessionFor(p models.Profile) *auth.SessionUser {
	return &auth.SessionUser{
		ID:         p.ID.Hex(),
		Name:       p.Name,
		Email:      p.Email,
		Role:       p.Role,
		Department: p.Department,
	}
}
