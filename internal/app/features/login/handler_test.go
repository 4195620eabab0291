package login_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/projecthub/internal/app/features/login"
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/dalemusser/projecthub/internal/testutil"
	"go.uber.org/zap"
)

const testSessionKey = "test-session-key-0123456789ABCDEF"

func newTestHandler(t *testing.T) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(testSessionKey, "projecthub-test", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	handler := login.NewHandler(db, sm, "2025", logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func postJSON(t *testing.T, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	return resp.Error
}

func TestHandleSignup_Student_Success(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := postJSON(t, "/auth/signup", map[string]any{
		"name":       "Asha Rao",
		"email":      "Asha@Test.EDU",
		"password":   "hunter2hunter2",
		"role":       "student",
		"department": "CS",
		"rollNumber": "CS2021042",
		"semester":   7,
	})
	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body %s)", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var p struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	testutil.DecodeJSON(t, rec, &p)
	if p.Email != "asha@test.edu" {
		t.Errorf("expected lowercased email, got %q", p.Email)
	}
	if p.Role != "student" {
		t.Errorf("expected role student, got %q", p.Role)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie on signup")
	}
}

func TestHandleSignup_Student_MissingRollNumber(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := postJSON(t, "/auth/signup", map[string]any{
		"name":       "Asha Rao",
		"email":      "asha@test.edu",
		"password":   "hunter2hunter2",
		"role":       "student",
		"department": "CS",
		"semester":   7,
	})
	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if msg := errorOf(t, rec); msg != "roll number is required for students" {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestHandleSignup_Student_SemesterOutOfRange(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := postJSON(t, "/auth/signup", map[string]any{
		"name":       "Asha Rao",
		"email":      "asha@test.edu",
		"password":   "hunter2hunter2",
		"role":       "student",
		"department": "CS",
		"rollNumber": "CS2021042",
		"semester":   9,
	})
	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if msg := errorOf(t, rec); msg != "semester must be between 1 and 8" {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestHandleSignup_SuperAdmin_AccessCode(t *testing.T) {
	handler, _ := newTestHandler(t)

	base := map[string]any{
		"name":       "Prof. Nair",
		"email":      "nair@test.edu",
		"password":   "hunter2hunter2",
		"role":       "super_admin",
		"department": "CS",
	}

	bad := map[string]any{}
	for k, v := range base {
		bad[k] = v
	}
	bad["accessCode"] = "WRONG"
	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, postJSON(t, "/auth/signup", bad))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for wrong code, got %d", http.StatusBadRequest, rec.Code)
	}
	if msg := errorOf(t, rec); msg != "invalid coordinator access code" {
		t.Errorf("unexpected error %q", msg)
	}

	good := map[string]any{}
	for k, v := range base {
		good[k] = v
	}
	good["accessCode"] = "CSADMIN2025"
	rec = httptest.NewRecorder()
	handler.HandleSignup(rec, postJSON(t, "/auth/signup", good))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d with department code, got %d (body %s)", http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func TestHandleSignup_ShortPassword(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := postJSON(t, "/auth/signup", map[string]any{
		"name":       "Asha Rao",
		"email":      "asha@test.edu",
		"password":   "short",
		"role":       "faculty",
		"department": "CS",
	})
	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleSignup_DuplicateEmail_Conflict(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := map[string]any{
		"name":       "Asha Rao",
		"email":      "asha@test.edu",
		"password":   "hunter2hunter2",
		"role":       "faculty",
		"department": "CS",
	}

	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, postJSON(t, "/auth/signup", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first signup failed: %d (body %s)", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.HandleSignup(rec, postJSON(t, "/auth/signup", body))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d for duplicate email, got %d", http.StatusConflict, rec.Code)
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, postJSON(t, "/auth/signup", map[string]any{
		"name":       "Asha Rao",
		"email":      "asha@test.edu",
		"password":   "hunter2hunter2",
		"role":       "faculty",
		"department": "CS",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.HandleLogin(rec, postJSON(t, "/auth/login", map[string]string{
		"email":    "asha@test.edu",
		"password": "wrong-password",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if msg := errorOf(t, rec); msg != "invalid email or password" {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestHandleLogin_Success(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, postJSON(t, "/auth/signup", map[string]any{
		"name":       "Asha Rao",
		"email":      "asha@test.edu",
		"password":   "hunter2hunter2",
		"role":       "faculty",
		"department": "CS",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.HandleLogin(rec, postJSON(t, "/auth/login", map[string]string{
		"email":    "ASHA@test.edu",
		"password": "hunter2hunter2",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body %s)", http.StatusOK, rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie on login")
	}

	// Password hash never leaves the server.
	if body := rec.Body.String(); bytes.Contains([]byte(body), []byte("password_hash")) {
		t.Errorf("response leaks password hash: %s", body)
	}
}

func TestHandleLogin_UnknownEmail(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, postJSON(t, "/auth/login", map[string]string{
		"email":    "nobody@test.edu",
		"password": "hunter2hunter2",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}
