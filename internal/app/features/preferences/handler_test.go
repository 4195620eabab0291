package preferences_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/projecthub/internal/app/features/preferences"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/dalemusser/projecthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*preferences.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := preferences.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

// seed creates a leader with a group and an active form with three mentors.
func seed(ctx context.Context, t *testing.T, fixtures *testutil.Fixtures) (models.Profile, models.Group, models.MentorForm, []models.Profile) {
	t.Helper()
	leader := fixtures.CreateStudent(ctx, "Asha Rao", "asha@test.edu", "CS")
	g := fixtures.CreateGroup(ctx, "CS01", "ABCDE", "CS", leader)
	admin := fixtures.CreateSuperAdmin(ctx, "Prof. Nair", "nair@test.edu", "CS")
	mentors := []models.Profile{
		fixtures.CreateFaculty(ctx, "Dr. Iyer", "iyer@test.edu", "CS"),
		fixtures.CreateFaculty(ctx, "Dr. Menon", "menon@test.edu", "CS"),
		fixtures.CreateFaculty(ctx, "Dr. Pillai", "pillai@test.edu", "CS"),
	}
	form := fixtures.CreateMentorForm(ctx, "CS", admin, mentors...)
	return leader, g, form, mentors
}

func submitBody(form models.MentorForm, mentors []models.Profile) map[string]any {
	choices := make([]string, 0, len(mentors))
	for _, m := range mentors {
		choices = append(choices, m.ID.Hex())
	}
	return map[string]any{"formId": form.ID.Hex(), "mentorChoices": choices}
}

func TestHandleSubmit_CreatesPendingAllocations(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, g, form, mentors := seed(ctx, t, fixtures)

	req := testutil.NewJSONRequest(t, "POST", "/preferences", submitBody(form, mentors), leader)
	rec := httptest.NewRecorder()
	handler.HandleSubmit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body %s)", http.StatusCreated, rec.Code, rec.Body.String())
	}

	db := fixtures.DB()
	count, err := db.Collection("mentor_allocations").CountDocuments(ctx, bson.M{
		"group_id": g.ID,
		"status":   models.AllocationPending,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != int64(models.PreferenceChoices) {
		t.Errorf("expected %d pending allocations, got %d", models.PreferenceChoices, count)
	}

	// Ranks follow choice order.
	var first struct {
		PreferenceRank int `bson:"preference_rank"`
	}
	err = db.Collection("mentor_allocations").
		FindOne(ctx, bson.M{"group_id": g.ID, "mentor_id": mentors[0].ID}).
		Decode(&first)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if first.PreferenceRank != 1 {
		t.Errorf("expected first choice at rank 1, got %d", first.PreferenceRank)
	}
}

func TestHandleSubmit_SecondSubmission_Conflict(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, _, form, mentors := seed(ctx, t, fixtures)
	body := submitBody(form, mentors)

	rec := httptest.NewRecorder()
	handler.HandleSubmit(rec, testutil.NewJSONRequest(t, "POST", "/preferences", body, leader))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first submission failed: %d (body %s)", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.HandleSubmit(rec, testutil.NewJSONRequest(t, "POST", "/preferences", body, leader))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d on resubmission, got %d", http.StatusConflict, rec.Code)
	}
}

func TestHandleSubmit_WrongChoiceCount(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, _, form, mentors := seed(ctx, t, fixtures)
	body := submitBody(form, mentors[:2])

	rec := httptest.NewRecorder()
	handler.HandleSubmit(rec, testutil.NewJSONRequest(t, "POST", "/preferences", body, leader))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleSubmit_DuplicateChoices(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, _, form, mentors := seed(ctx, t, fixtures)
	body := submitBody(form, []models.Profile{mentors[0], mentors[0], mentors[1]})

	rec := httptest.NewRecorder()
	handler.HandleSubmit(rec, testutil.NewJSONRequest(t, "POST", "/preferences", body, leader))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleSubmit_MentorNotOnForm(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, _, form, mentors := seed(ctx, t, fixtures)
	outsider := fixtures.CreateFaculty(ctx, "Dr. Verma", "verma@test.edu", "CS")
	body := submitBody(form, []models.Profile{mentors[0], mentors[1], outsider})

	rec := httptest.NewRecorder()
	handler.HandleSubmit(rec, testutil.NewJSONRequest(t, "POST", "/preferences", body, leader))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleSubmit_NonLeader_Forbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, g, form, mentors := seed(ctx, t, fixtures)
	member := fixtures.CreateStudent(ctx, "Bala K", "bala@test.edu", "CS")
	fixtures.AddGroupMember(ctx, g, member)

	rec := httptest.NewRecorder()
	handler.HandleSubmit(rec, testutil.NewJSONRequest(t, "POST", "/preferences", submitBody(form, mentors), member))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestHandleSubmit_InactiveForm(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, _, form, mentors := seed(ctx, t, fixtures)

	_, err := fixtures.DB().Collection("mentor_forms").
		UpdateByID(ctx, form.ID, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		t.Fatalf("deactivate form: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.HandleSubmit(rec, testutil.NewJSONRequest(t, "POST", "/preferences", submitBody(form, mentors), leader))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestServeHasSubmitted(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader, _, form, mentors := seed(ctx, t, fixtures)

	req := testutil.NewJSONRequest(t, "GET", "/preferences/submitted", nil, leader)
	rec := httptest.NewRecorder()
	handler.ServeHasSubmitted(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var resp struct {
		HasSubmitted bool `json:"hasSubmitted"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.HasSubmitted {
		t.Error("expected hasSubmitted false before submission")
	}

	rec = httptest.NewRecorder()
	handler.HandleSubmit(rec, testutil.NewJSONRequest(t, "POST", "/preferences", submitBody(form, mentors), leader))
	if rec.Code != http.StatusCreated {
		t.Fatalf("submission failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHasSubmitted(rec, testutil.NewJSONRequest(t, "GET", "/preferences/submitted", nil, leader))
	testutil.DecodeJSON(t, rec, &resp)
	if !resp.HasSubmitted {
		t.Error("expected hasSubmitted true after submission")
	}
}
