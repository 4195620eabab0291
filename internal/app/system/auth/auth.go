// Package auth provides cookie-session authentication for the API.
//
// A SessionManager wraps a gorilla/sessions CookieStore. LoadSessionUser
// runs globally and injects the signed-in profile into the request context;
// RequireSignedIn guards the API routes and answers 401 JSON when no user
// is present. Handlers read the user with CurrentUser.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey      = "is_authenticated"
	profileIDKey   = "profile_id"
	profileName    = "profile_name"
	profileEmail   = "profile_email"
	profileRole    = "profile_role"
	profileDeptKey = "profile_department"
)

// SessionUser is what we cache in the session and inject into r.Context().
type SessionUser struct {
	ID         string
	Name       string
	Email      string
	Role       string
	Department string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// SessionManager owns the cookie store and session lifecycle.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a SessionManager with the given signing key,
// cookie name, and domain. Secure cookies are enabled in production.
func NewSessionManager(key, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if len(key) < 32 {
		return nil, errors.New("session key must be at least 32 characters")
	}
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, name: name, log: logger}, nil
}

// CurrentUser returns the session user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a user into the request context, bypassing the
// session store. Tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// session returns the request's session, falling back to a fresh one when
// the cookie is stale or tampered. A decode failure is routine (old key,
// hand-edited cookie) and logs at Warn; anything else logs at Error.
func (sm *SessionManager) session(r *http.Request) *sessions.Session {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			sm.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			sm.log.Error("session store error, using fresh session", zap.Error(err))
		}
	}
	return sess
}

// SignIn stores the user in the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess := sm.session(r)
	sess.Values[isAuthKey] = true
	sess.Values[profileIDKey] = u.ID
	sess.Values[profileName] = u.Name
	sess.Values[profileEmail] = u.Email
	sess.Values[profileRole] = u.Role
	sess.Values[profileDeptKey] = u.Department
	if err := sess.Save(r, w); err != nil {
		sm.log.Error("session save failed", zap.Error(err))
		return err
	}
	return nil
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) {
	sess := sm.session(r)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("session clear failed", zap.Error(err))
	}
}

// LoadSessionUser injects the user into context if they are signed in.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sm.session(r)
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:         getString(sess, profileIDKey),
				Name:       getString(sess, profileName),
				Email:      getString(sess, profileEmail),
				Role:       getString(sess, profileRole),
				Department: getString(sess, profileDeptKey),
			}
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser). API callers get a plain 401 JSON body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
	})
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	v, _ := s.Values[key].(string)
	return v
}
