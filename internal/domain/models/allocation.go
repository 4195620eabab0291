package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PreferenceChoices is the number of ranked mentor choices a group submits.
const PreferenceChoices = 3

// MentorPreference records a group leader's ranked mentor choices against
// one form. Write-once: unique per (group_id, form_id).
type MentorPreference struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	GroupID     primitive.ObjectID   `bson:"group_id" json:"groupId"`
	FormID      primitive.ObjectID   `bson:"form_id" json:"formId"`
	Choices     []primitive.ObjectID `bson:"choices" json:"mentorChoices"` // rank order, index 0 = first choice
	SubmittedBy primitive.ObjectID   `bson:"submitted_by" json:"submittedBy"`
	SubmittedAt time.Time            `bson:"submitted_at" json:"submittedAt"`
}

// Allocation statuses.
const (
	AllocationPending  = "pending"
	AllocationAccepted = "accepted"
	AllocationRejected = "rejected"
)

// Derived mentor statuses for a group, reported by the allocations feature.
const (
	MentorStatusNoGroup      = "no_group"
	MentorStatusNotSubmitted = "not_submitted"
	MentorStatusPending      = "pending"
	MentorStatusAccepted     = "accepted"
	MentorStatusAllRejected  = "all_rejected"
)

// MentorAllocation is one (group, mentor) offer with its preference rank
// and lifecycle status. Three are created per preference submission, all
// pending. Within one group's set, at most one may ever be accepted;
// accepting one rejects every sibling in the same transaction.
type MentorAllocation struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	GroupID        primitive.ObjectID  `bson:"group_id" json:"groupId"`
	MentorID       primitive.ObjectID  `bson:"mentor_id" json:"mentorId"`
	FormID         primitive.ObjectID  `bson:"form_id" json:"formId"`
	PreferenceRank int                 `bson:"preference_rank" json:"preferenceRank"` // 1-3
	Status         string              `bson:"status" json:"status"`
	CreatedAt      time.Time           `bson:"created_at" json:"createdAt"`
	DecidedAt      *time.Time          `bson:"decided_at,omitempty" json:"decidedAt,omitempty"`
	DecidedBy      *primitive.ObjectID `bson:"decided_by,omitempty" json:"decidedBy,omitempty"`
}
