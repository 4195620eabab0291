package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review phases, in pipeline order.
const (
	ReviewOne   = "review_1"
	ReviewTwo   = "review_2"
	FinalReview = "final_review"
)

// ReviewTypes lists the phases in pipeline order.
var ReviewTypes = []string{ReviewOne, ReviewTwo, FinalReview}

// ValidReviewType reports whether rt names a known review phase.
func ValidReviewType(rt string) bool {
	for _, t := range ReviewTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// PreviousReviewType returns the phase that gates rt, or "" for review_1.
func PreviousReviewType(rt string) string {
	switch rt {
	case ReviewTwo:
		return ReviewOne
	case FinalReview:
		return ReviewTwo
	}
	return ""
}

// ReviewRollout activates one review phase for every group in a department.
// One-way: once created it stays active. Unique per (department, review_type);
// repeating a rollout returns the existing record.
type ReviewRollout struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Department string             `bson:"department" json:"department"`
	ReviewType string             `bson:"review_type" json:"reviewType"`
	IsActive   bool               `bson:"is_active" json:"isActive"`
	CreatedBy  primitive.ObjectID `bson:"created_by" json:"createdBy"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// Review session statuses. SessionNotStarted is never stored: it is the
// explicit status reported when no session document exists yet, so callers
// see a tagged state instead of special-casing absence.
const (
	SessionNotStarted    = "not_started"
	SessionSubmitted     = "submitted"
	SessionFeedbackGiven = "feedback_given"
	SessionCompleted     = "completed"
)

// ReviewSession is one group's progress record for one review phase.
// Unique per (group_id, review_type): resubmitting progress updates the
// same document and resets its status to submitted.
type ReviewSession struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	GroupID             primitive.ObjectID  `bson:"group_id" json:"groupId"`
	ReviewType          string              `bson:"review_type" json:"reviewType"`
	Status              string              `bson:"status" json:"status"`
	ProgressPercentage  int                 `bson:"progress_percentage" json:"progressPercentage"`
	ProgressDescription string              `bson:"progress_description" json:"progressDescription"`
	SubmittedBy         primitive.ObjectID  `bson:"submitted_by" json:"submittedBy"`
	SubmittedAt         time.Time           `bson:"submitted_at" json:"submittedAt"`
	MentorFeedback      string              `bson:"mentor_feedback,omitempty" json:"mentorFeedback,omitempty"`
	FeedbackGivenBy     *primitive.ObjectID `bson:"feedback_given_by,omitempty" json:"feedbackGivenBy,omitempty"`
	FeedbackGivenAt     *time.Time          `bson:"feedback_given_at,omitempty" json:"feedbackGivenAt,omitempty"`
	CompletedAt         *time.Time          `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}
