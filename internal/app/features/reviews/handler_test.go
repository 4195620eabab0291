package reviews_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/projecthub/internal/app/features/reviews"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/dalemusser/projecthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*reviews.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := reviews.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

// seedReviewGroup creates a leader with a group whose topic is already
// approved, plus an admin and a mentor in the same department.
func seedReviewGroup(ctx context.Context, t *testing.T, fixtures *testutil.Fixtures) (leader, admin, mentor models.Profile, g models.Group) {
	t.Helper()
	leader = fixtures.CreateStudent(ctx, "Asha Rao", "asha@test.edu", "CS")
	g = fixtures.CreateGroup(ctx, "CS01", "ABCDE", "CS", leader)
	admin = fixtures.CreateSuperAdmin(ctx, "Prof. Nair", "nair@test.edu", "CS")
	mentor = fixtures.CreateFaculty(ctx, "Dr. Iyer", "iyer@test.edu", "CS")
	fixtures.CreateTopic(ctx, g, leader, "Campus Energy Monitor", models.TopicApproved)
	return leader, admin, mentor, g
}

func progressBody(pct int) map[string]any {
	return map[string]any{
		"progressPercentage":  pct,
		"progressDescription": "Backend endpoints wired, dashboard in progress.",
	}
}

func submitProgress(t *testing.T, handler *reviews.Handler, leader models.Profile, rt string, pct int) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, "POST", "/reviews/"+rt+"/progress", progressBody(pct), leader)
	req = testutil.WithChiURLParam(req, "reviewType", rt)
	rec := httptest.NewRecorder()
	handler.HandleSubmitProgress(rec, req)
	return rec
}

func TestHandleRollout_Idempotent(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, admin, _, _ := seedReviewGroup(ctx, t, fixtures)
	body := map[string]string{"reviewType": models.ReviewOne}

	rec := httptest.NewRecorder()
	handler.HandleRollout(rec, testutil.NewJSONRequest(t, "POST", "/reviews/rollout", body, admin))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d on first rollout, got %d (body %s)", http.StatusCreated, rec.Code, rec.Body.String())
	}
	var first struct {
		ID string `json:"id"`
	}
	testutil.DecodeJSON(t, rec, &first)

	rec = httptest.NewRecorder()
	handler.HandleRollout(rec, testutil.NewJSONRequest(t, "POST", "/reviews/rollout", body, admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d on repeat rollout, got %d", http.StatusOK, rec.Code)
	}
	var second struct {
		ID string `json:"id"`
	}
	testutil.DecodeJSON(t, rec, &second)
	if first.ID != second.ID {
		t.Errorf("expected the same rollout back, got %s then %s", first.ID, second.ID)
	}

	count, err := fixtures.DB().Collection("review_rollouts").
		CountDocuments(ctx, bson.M{"department": "CS", "review_type": models.ReviewOne})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 rollout row, got %d", count)
	}
}

func TestHandleRollout_Faculty_Forbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, _, mentor, _ := seedReviewGroup(ctx, t, fixtures)

	rec := httptest.NewRecorder()
	handler.HandleRollout(rec, testutil.NewJSONRequest(t, "POST", "/reviews/rollout",
		map[string]string{"reviewType": models.ReviewOne}, mentor))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestHandleSubmitProgress_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, admin, _, _ := seedReviewGroup(ctx, t, fixtures)
	fixtures.CreateRollout(ctx, "CS", models.ReviewOne, admin)

	rec := submitProgress(t, handler, leader, models.ReviewOne, 40)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body %s)", http.StatusOK, rec.Code, rec.Body.String())
	}
	var sess struct {
		Status             string `json:"status"`
		ProgressPercentage int    `json:"progressPercentage"`
	}
	testutil.DecodeJSON(t, rec, &sess)
	if sess.Status != models.SessionSubmitted {
		t.Errorf("expected status %q, got %q", models.SessionSubmitted, sess.Status)
	}
	if sess.ProgressPercentage != 40 {
		t.Errorf("expected 40 percent, got %d", sess.ProgressPercentage)
	}
}

func TestHandleSubmitProgress_NotRolledOut(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, _, _, _ := seedReviewGroup(ctx, t, fixtures)

	rec := submitProgress(t, handler, leader, models.ReviewOne, 40)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d without a rollout, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleSubmitProgress_NeedsApprovedTopic(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateStudent(ctx, "Asha Rao", "asha@test.edu", "CS")
	fixtures.CreateGroup(ctx, "CS01", "ABCDE", "CS", leader)
	admin := fixtures.CreateSuperAdmin(ctx, "Prof. Nair", "nair@test.edu", "CS")
	fixtures.CreateRollout(ctx, "CS", models.ReviewOne, admin)

	rec := submitProgress(t, handler, leader, models.ReviewOne, 40)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Error != "your group needs an approved topic before review 1" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestHandleSubmitProgress_Gate_PreviousNotCompleted(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, admin, _, g := seedReviewGroup(ctx, t, fixtures)
	fixtures.CreateRollout(ctx, "CS", models.ReviewTwo, admin)
	// Review 1 exists but feedback was never completed.
	fixtures.CreateSession(ctx, g, models.ReviewOne, models.SessionFeedbackGiven, 40, leader)

	rec := submitProgress(t, handler, leader, models.ReviewTwo, 70)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d (body %s)", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Error != "previous review is not completed yet" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestHandleSubmitProgress_Gate_OpensAfterCompletion(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, admin, _, g := seedReviewGroup(ctx, t, fixtures)
	fixtures.CreateRollout(ctx, "CS", models.ReviewTwo, admin)
	fixtures.CreateSession(ctx, g, models.ReviewOne, models.SessionCompleted, 40, leader)

	rec := submitProgress(t, handler, leader, models.ReviewTwo, 70)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d after completing review 1, got %d (body %s)", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestHandleSubmitProgress_PercentageBounds(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, admin, _, _ := seedReviewGroup(ctx, t, fixtures)
	fixtures.CreateRollout(ctx, "CS", models.ReviewOne, admin)

	for _, pct := range []int{-1, 101} {
		rec := submitProgress(t, handler, leader, models.ReviewOne, pct)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("pct %d: expected status %d, got %d", pct, http.StatusBadRequest, rec.Code)
		}
	}
	for _, pct := range []int{0, 100} {
		rec := submitProgress(t, handler, leader, models.ReviewOne, pct)
		if rec.Code != http.StatusOK {
			t.Errorf("pct %d: expected status %d, got %d (body %s)", pct, http.StatusOK, rec.Code, rec.Body.String())
		}
	}
}

func TestHandleSubmitProgress_Resubmit_KeepsSessionID(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, admin, mentor, _ := seedReviewGroup(ctx, t, fixtures)
	fixtures.CreateRollout(ctx, "CS", models.ReviewOne, admin)

	rec := submitProgress(t, handler, leader, models.ReviewOne, 30)
	if rec.Code != http.StatusOK {
		t.Fatalf("first submission failed: %d", rec.Code)
	}
	var first struct {
		ID string `json:"id"`
	}
	testutil.DecodeJSON(t, rec, &first)

	// Mentor leaves feedback, then the group resubmits.
	var sess models.ReviewSession
	if err := fixtures.DB().Collection("review_sessions").FindOne(ctx, bson.M{}).Decode(&sess); err != nil {
		t.Fatalf("load session: %v", err)
	}
	req := testutil.NewJSONRequest(t, "POST", "/reviews/sessions/feedback",
		map[string]string{"feedback": "Show a live demo next time."}, mentor)
	req = testutil.WithChiURLParam(req, "id", sess.ID.Hex())
	rec = httptest.NewRecorder()
	handler.HandleFeedback(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("feedback failed: %d (body %s)", rec.Code, rec.Body.String())
	}

	rec = submitProgress(t, handler, leader, models.ReviewOne, 55)
	if rec.Code != http.StatusOK {
		t.Fatalf("resubmission failed: %d (body %s)", rec.Code, rec.Body.String())
	}
	var second struct {
		ID       string  `json:"id"`
		Status   string  `json:"status"`
		Feedback *string `json:"feedback"`
	}
	testutil.DecodeJSON(t, rec, &second)
	if second.ID != first.ID {
		t.Errorf("expected stable session id, got %s then %s", first.ID, second.ID)
	}
	if second.Status != models.SessionSubmitted {
		t.Errorf("expected status reset to %q, got %q", models.SessionSubmitted, second.Status)
	}
	if second.Feedback != nil {
		t.Errorf("expected feedback cleared on resubmit, got %q", *second.Feedback)
	}
}

func TestHandleComplete_RequiresFeedback(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, _, mentor, g := seedReviewGroup(ctx, t, fixtures)
	sess := fixtures.CreateSession(ctx, g, models.ReviewOne, models.SessionSubmitted, 40, leader)

	req := testutil.NewJSONRequest(t, "POST", "/reviews/sessions/complete", nil, mentor)
	req = testutil.WithChiURLParam(req, "id", sess.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleComplete(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Error != "feedback must be given before completing" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestFeedbackThenComplete(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, _, mentor, g := seedReviewGroup(ctx, t, fixtures)
	sess := fixtures.CreateSession(ctx, g, models.ReviewOne, models.SessionSubmitted, 40, leader)

	req := testutil.NewJSONRequest(t, "POST", "/reviews/sessions/feedback",
		map[string]string{"feedback": "Good pace, tighten the report."}, mentor)
	req = testutil.WithChiURLParam(req, "id", sess.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleFeedback(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("feedback failed: %d (body %s)", rec.Code, rec.Body.String())
	}
	var got struct {
		Status string `json:"status"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Status != models.SessionFeedbackGiven {
		t.Errorf("expected status %q, got %q", models.SessionFeedbackGiven, got.Status)
	}

	req = testutil.NewJSONRequest(t, "POST", "/reviews/sessions/complete", nil, mentor)
	req = testutil.WithChiURLParam(req, "id", sess.ID.Hex())
	rec = httptest.NewRecorder()
	handler.HandleComplete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete failed: %d (body %s)", rec.Code, rec.Body.String())
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Status != models.SessionCompleted {
		t.Errorf("expected status %q, got %q", models.SessionCompleted, got.Status)
	}

	// Completed is terminal.
	req = testutil.NewJSONRequest(t, "POST", "/reviews/sessions/complete", nil, mentor)
	req = testutil.WithChiURLParam(req, "id", sess.ID.Hex())
	rec = httptest.NewRecorder()
	handler.HandleComplete(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d on repeat complete, got %d", http.StatusConflict, rec.Code)
	}
}

func TestServeMySession_NotStarted(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, _, _, _ := seedReviewGroup(ctx, t, fixtures)

	req := testutil.NewJSONRequest(t, "GET", "/reviews/review_1/session", nil, leader)
	req = testutil.WithChiURLParam(req, "reviewType", models.ReviewOne)
	rec := httptest.NewRecorder()
	handler.ServeMySession(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var resp struct {
		Status     string `json:"status"`
		ReviewType string `json:"reviewType"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Status != models.SessionNotStarted {
		t.Errorf("expected status %q, got %q", models.SessionNotStarted, resp.Status)
	}
	if resp.ReviewType != models.ReviewOne {
		t.Errorf("expected review type %q, got %q", models.ReviewOne, resp.ReviewType)
	}
}

func TestServePipeline(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, admin, _, g := seedReviewGroup(ctx, t, fixtures)
	fixtures.CreateRollout(ctx, "CS", models.ReviewOne, admin)
	fixtures.CreateRollout(ctx, "CS", models.ReviewTwo, admin)
	fixtures.CreateSession(ctx, g, models.ReviewOne, models.SessionCompleted, 40, leader)

	req := testutil.NewJSONRequest(t, "GET", "/reviews/pipeline", nil, leader)
	rec := httptest.NewRecorder()
	handler.ServePipeline(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body %s)", http.StatusOK, rec.Code, rec.Body.String())
	}
	var phases []struct {
		ReviewType string `json:"reviewType"`
		RolledOut  bool   `json:"rolledOut"`
		Unlocked   bool   `json:"unlocked"`
		Status     string `json:"status"`
	}
	testutil.DecodeJSON(t, rec, &phases)
	if len(phases) != len(models.ReviewTypes) {
		t.Fatalf("expected %d phases, got %d", len(models.ReviewTypes), len(phases))
	}

	byType := make(map[string]int, len(phases))
	for i, p := range phases {
		byType[p.ReviewType] = i
	}
	r1 := phases[byType[models.ReviewOne]]
	if !r1.RolledOut || !r1.Unlocked || r1.Status != models.SessionCompleted {
		t.Errorf("unexpected review_1 summary %+v", r1)
	}
	r2 := phases[byType[models.ReviewTwo]]
	if !r2.RolledOut || !r2.Unlocked || r2.Status != models.SessionNotStarted {
		t.Errorf("unexpected review_2 summary %+v", r2)
	}
	final := phases[byType[models.FinalReview]]
	if final.RolledOut || final.Unlocked {
		t.Errorf("unexpected final review summary %+v", final)
	}
}
