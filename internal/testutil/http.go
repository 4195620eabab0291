package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// SessionFor builds the session user a signed-in profile would carry.
func SessionFor(p models.Profile) *auth.SessionUser {
	return &auth.SessionUser{
		ID:         p.ID.Hex(),
		Name:       p.Name,
		Email:      p.Email,
		Role:       p.Role,
		Department: p.Department,
	}
}

// NewJSONRequest builds a request with a JSON-encoded body and the profile
// injected as the session user.
func NewJSONRequest(t *testing.T, method, target string, body any, as models.Profile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return auth.WithTestUser(req, SessionFor(as))
}

// WithChiURLParam adds a chi URL parameter to the request context. Use this
// in handler tests that call handlers directly instead of through a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// DecodeJSON decodes a recorder body into v.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v (body %q)", err, rec.Body.String())
	}
}
