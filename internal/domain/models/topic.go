package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Topic statuses.
const (
	TopicSubmitted         = "submitted"
	TopicUnderReview       = "under_review"
	TopicApproved          = "approved"
	TopicRejected          = "rejected"
	TopicRevisionRequested = "revision_requested"
)

// MaxOpenTopics caps how many non-rejected topics a group may hold at once.
const MaxOpenTopics = 3

// ProjectTopic is one proposed project topic for a group. A group may hold
// up to MaxOpenTopics non-rejected proposals; approving one rejects the
// rest, so at most one approved topic exists per group.
type ProjectTopic struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	GroupID     primitive.ObjectID  `bson:"group_id" json:"groupId"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Status      string              `bson:"status" json:"status"`
	SubmittedBy primitive.ObjectID  `bson:"submitted_by" json:"submittedBy"`
	SubmittedAt time.Time           `bson:"submitted_at" json:"submittedAt"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time          `bson:"reviewed_at,omitempty" json:"reviewedAt,omitempty"`
}

// Open reports whether the topic still counts against the group's
// concurrent-proposal cap.
func (t ProjectTopic) Open() bool {
	return t.Status != TopicRejected
}
