package allocations_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/projecthub/internal/app/features/allocations"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/dalemusser/projecthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*allocations.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := allocations.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

type seeded struct {
	leader  models.Profile
	group   models.Group
	mentors []models.Profile
	allocs  []models.MentorAllocation
}

// seedAllocations creates a group with three pending allocations, ranked
// in mentor order.
func seedAllocations(ctx context.Context, t *testing.T, fixtures *testutil.Fixtures) seeded {
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

	allocs := make([]models.MentorAllocation, 0, len(mentors))
	for i, m := range mentors {
		allocs = append(allocs, fixtures.CreateAllocation(ctx, g, m, form, i+1, models.AllocationPending))
	}
	return seeded{leader: leader, group: g, mentors: mentors, allocs: allocs}
}

func statusCounts(ctx context.Context, t *testing.T, fixtures *testutil.Fixtures, group models.Group) map[string]int64 {
	t.Helper()
	counts := make(map[string]int64)
	for _, status := range []string{models.AllocationPending, models.AllocationAccepted, models.AllocationRejected} {
		n, err := fixtures.DB().Collection("mentor_allocations").
			CountDocuments(ctx, bson.M{"group_id": group.ID, "status": status})
		if err != nil {
			t.Fatalf("CountDocuments failed: %v", err)
		}
		counts[status] = n
	}
	return counts
}

func TestHandleAccept_RejectsSiblings(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := seedAllocations(ctx, t, fixtures)

	req := testutil.NewJSONRequest(t, "POST", "/allocations/accept", nil, s.mentors[1])
	req = testutil.WithChiURLParam(req, "id", s.allocs[1].ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleAccept(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body %s)", http.StatusOK, rec.Code, rec.Body.String())
	}

	counts := statusCounts(ctx, t, fixtures, s.group)
	if counts[models.AllocationAccepted] != 1 {
		t.Errorf("expected 1 accepted allocation, got %d", counts[models.AllocationAccepted])
	}
	if counts[models.AllocationRejected] != 2 {
		t.Errorf("expected 2 rejected siblings, got %d", counts[models.AllocationRejected])
	}
	if counts[models.AllocationPending] != 0 {
		t.Errorf("expected no pending allocations left, got %d", counts[models.AllocationPending])
	}
}

func TestHandleAccept_AfterSiblingAccepted_Conflict(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := seedAllocations(ctx, t, fixtures)

	req := testutil.NewJSONRequest(t, "POST", "/allocations/accept", nil, s.mentors[0])
	req = testutil.WithChiURLParam(req, "id", s.allocs[0].ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleAccept(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first accept failed: %d", rec.Code)
	}

	// The sibling was rejected by the first accept; a late accept must fail.
	req = testutil.NewJSONRequest(t, "POST", "/allocations/accept", nil, s.mentors[1])
	req = testutil.WithChiURLParam(req, "id", s.allocs[1].ID.Hex())
	rec = httptest.NewRecorder()
	handler.HandleAccept(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}

	counts := statusCounts(ctx, t, fixtures, s.group)
	if counts[models.AllocationAccepted] != 1 {
		t.Errorf("expected exactly 1 accepted allocation, got %d", counts[models.AllocationAccepted])
	}
}

func TestHandleReject_LeavesSiblingsPending(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := seedAllocations(ctx, t, fixtures)

	req := testutil.NewJSONRequest(t, "POST", "/allocations/reject", nil, s.mentors[0])
	req = testutil.WithChiURLParam(req, "id", s.allocs[0].ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleReject(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body %s)", http.StatusOK, rec.Code, rec.Body.String())
	}

	counts := statusCounts(ctx, t, fixtures, s.group)
	if counts[models.AllocationRejected] != 1 {
		t.Errorf("expected 1 rejected allocation, got %d", counts[models.AllocationRejected])
	}
	if counts[models.AllocationPending] != 2 {
		t.Errorf("expected 2 siblings still pending, got %d", counts[models.AllocationPending])
	}
}

func TestHandleAccept_OtherMentor_Forbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := seedAllocations(ctx, t, fixtures)

	// mentors[1] tries to decide mentors[0]'s allocation.
	req := testutil.NewJSONRequest(t, "POST", "/allocations/accept", nil, s.mentors[1])
	req = testutil.WithChiURLParam(req, "id", s.allocs[0].ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleAccept(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestHandleAccept_Student_Forbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := seedAllocations(ctx, t, fixtures)

	req := testutil.NewJSONRequest(t, "POST", "/allocations/accept", nil, s.leader)
	req = testutil.WithChiURLParam(req, "id", s.allocs[0].ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleAccept(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestServeStatus_Derivation(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	status := func(as models.Profile) string {
		t.Helper()
		rec := httptest.NewRecorder()
		handler.ServeStatus(rec, testutil.NewJSONRequest(t, "GET", "/allocations/status", nil, as))
		if rec.Code != http.StatusOK {
			t.Fatalf("status read failed: %d (body %s)", rec.Code, rec.Body.String())
		}
		var resp struct {
			Status string `json:"status"`
		}
		testutil.DecodeJSON(t, rec, &resp)
		return resp.Status
	}

	loner := fixtures.CreateStudent(ctx, "Eesha T", "eesha@test.edu", "CS")
	if got := status(loner); got != models.MentorStatusNoGroup {
		t.Errorf("expected %q without a group, got %q", models.MentorStatusNoGroup, got)
	}

	s := seedAllocations(ctx, t, fixtures)
	if got := status(s.leader); got != models.MentorStatusPending {
		t.Errorf("expected %q with pending allocations, got %q", models.MentorStatusPending, got)
	}

	// All three rejected: all_rejected.
	_, err := fixtures.DB().Collection("mentor_allocations").UpdateMany(ctx,
		bson.M{"group_id": s.group.ID},
		bson.M{"$set": bson.M{"status": models.AllocationRejected}})
	if err != nil {
		t.Fatalf("UpdateMany failed: %v", err)
	}
	if got := status(s.leader); got != models.MentorStatusAllRejected {
		t.Errorf("expected %q after all rejections, got %q", models.MentorStatusAllRejected, got)
	}

	// One accepted wins over everything else.
	_, err = fixtures.DB().Collection("mentor_allocations").UpdateByID(ctx,
		s.allocs[2].ID, bson.M{"$set": bson.M{"status": models.AllocationAccepted}})
	if err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}
	if got := status(s.leader); got != models.MentorStatusAccepted {
		t.Errorf("expected %q with an accepted allocation, got %q", models.MentorStatusAccepted, got)
	}
}

func TestServeStatus_NotSubmitted(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateStudent(ctx, "Asha Rao", "asha@test.edu", "CS")
	fixtures.CreateGroup(ctx, "CS01", "ABCDE", "CS", leader)

	rec := httptest.NewRecorder()
	handler.ServeStatus(rec, testutil.NewJSONRequest(t, "GET", "/allocations/status", nil, leader))
	var resp struct {
		Status string `json:"status"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Status != models.MentorStatusNotSubmitted {
		t.Errorf("expected %q, got %q", models.MentorStatusNotSubmitted, resp.Status)
	}
}
