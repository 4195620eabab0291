package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateProfile inserts a profile with the given role and department.
func (f *Fixtures) CreateProfile(ctx context.Context, name, email, role, dept string) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Profile{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: "x", // never checked in handler tests
		Role:         role,
		Department:   dept,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == models.RoleStudent {
		p.RollNumber = "R-" + p.ID.Hex()[:6]
		p.Semester = 7
	}

	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// CreateStudent inserts a student profile.
func (f *Fixtures) CreateStudent(ctx context.Context, name, email, dept string) models.Profile {
	f.t.Helper()
	return f.CreateProfile(ctx, name, email, models.RoleStudent, dept)
}

// CreateFaculty inserts a faculty profile.
func (f *Fixtures) CreateFaculty(ctx context.Context, name, email, dept string) models.Profile {
	f.t.Helper()
	return f.CreateProfile(ctx, name, email, models.RoleFaculty, dept)
}

// CreateSuperAdmin inserts a super-admin profile.
func (f *Fixtures) CreateSuperAdmin(ctx context.Context, name, email, dept string) models.Profile {
	f.t.Helper()
	return f.CreateProfile(ctx, name, email, models.RoleSuperAdmin, dept)
}

// CreateGroup inserts a group led by leader, with leader as first member.
func (f *Fixtures) CreateGroup(ctx context.Context, displayID, teamCode, dept string, leader models.Profile) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:         primitive.NewObjectID(),
		DisplayID:  displayID,
		TeamCode:   teamCode,
		Department: dept,
		CreatedBy:  leader.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	f.AddGroupMember(ctx, g, leader)
	return g
}

// AddGroupMember links a profile to a group.
func (f *Fixtures) AddGroupMember(ctx context.Context, g models.Group, p models.Profile) models.GroupMember {
	f.t.Helper()

	m := models.GroupMember{
		ID:         primitive.NewObjectID(),
		GroupID:    g.ID,
		ProfileID:  p.ID,
		Department: g.Department,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("group_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test group member: %v", err)
	}
	return m
}

// CreateMentorForm inserts an active mentor form for the department.
func (f *Fixtures) CreateMentorForm(ctx context.Context, dept string, createdBy models.Profile, mentors ...models.Profile) models.MentorForm {
	f.t.Helper()

	ids := make([]primitive.ObjectID, 0, len(mentors))
	for _, m := range mentors {
		ids = append(ids, m.ID)
	}
	now := time.Now().UTC()
	form := models.MentorForm{
		ID:         primitive.NewObjectID(),
		Department: dept,
		IsActive:   true,
		CreatedBy:  createdBy.ID,
		MentorIDs:  ids,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("mentor_forms").InsertOne(ctx, form); err != nil {
		f.t.Fatalf("failed to create test mentor form: %v", err)
	}
	return form
}

// CreateAllocation inserts one mentor allocation row directly.
func (f *Fixtures) CreateAllocation(ctx context.Context, g models.Group, mentor models.Profile, form models.MentorForm, rank int, status string) models.MentorAllocation {
	f.t.Helper()

	a := models.MentorAllocation{
		ID:             primitive.NewObjectID(),
		GroupID:        g.ID,
		MentorID:       mentor.ID,
		FormID:         form.ID,
		PreferenceRank: rank,
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := f.db.Collection("mentor_allocations").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test allocation: %v", err)
	}
	return a
}

// CreateTopic inserts a project topic with the given status.
func (f *Fixtures) CreateTopic(ctx context.Context, g models.Group, submitter models.Profile, title, status string) models.ProjectTopic {
	f.t.Helper()

	topic := models.ProjectTopic{
		ID:          primitive.NewObjectID(),
		GroupID:     g.ID,
		Title:       title,
		Description: "Test topic description",
		Status:      status,
		SubmittedBy: submitter.ID,
		SubmittedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("project_topics").InsertOne(ctx, topic); err != nil {
		f.t.Fatalf("failed to create test topic: %v", err)
	}
	return topic
}

// CreateRollout inserts a review rollout for the department and phase.
func (f *Fixtures) CreateRollout(ctx context.Context, dept, reviewType string, createdBy models.Profile) models.ReviewRollout {
	f.t.Helper()

	r := models.ReviewRollout{
		ID:         primitive.NewObjectID(),
		Department: dept,
		ReviewType: reviewType,
		IsActive:   true,
		CreatedBy:  createdBy.ID,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("review_rollouts").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test rollout: %v", err)
	}
	return r
}

// CreateSession inserts a review session with the given status.
func (f *Fixtures) CreateSession(ctx context.Context, g models.Group, reviewType, status string, pct int, submitter models.Profile) models.ReviewSession {
	f.t.Helper()

	s := models.ReviewSession{
		ID:                  primitive.NewObjectID(),
		GroupID:             g.ID,
		ReviewType:          reviewType,
		Status:              status,
		ProgressPercentage:  pct,
		ProgressDescription: "Test progress",
		SubmittedBy:         submitter.ID,
		SubmittedAt:         time.Now().UTC(),
	}
	if _, err := f.db.Collection("review_sessions").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test session: %v", err)
	}
	return s
}
