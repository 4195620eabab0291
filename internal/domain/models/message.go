package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message author roles as shown on threads. Faculty and super admins both
// post as "faculty".
const (
	AuthorStudent = "student"
	AuthorFaculty = "faculty"
)

// TopicMessage is one entry in a topic's discussion thread. Append-only,
// ordered by CreatedAt. TopicID may be nil for group-wide topic discussion.
type TopicMessage struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TopicID    *primitive.ObjectID `bson:"topic_id,omitempty" json:"topicId,omitempty"`
	GroupID    primitive.ObjectID  `bson:"group_id" json:"groupId"`
	AuthorID   primitive.ObjectID  `bson:"author_id" json:"authorId"`
	AuthorName string              `bson:"author_name" json:"authorName"`
	AuthorRole string              `bson:"author_role" json:"authorRole"`
	Content    string              `bson:"content" json:"content"`
	Links      []string            `bson:"links,omitempty" json:"links,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"createdAt"`
}

// ReviewMessage is one entry in a review session's discussion thread.
type ReviewMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID  primitive.ObjectID `bson:"session_id" json:"sessionId"`
	GroupID    primitive.ObjectID `bson:"group_id" json:"groupId"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"authorId"`
	AuthorName string             `bson:"author_name" json:"authorName"`
	AuthorRole string             `bson:"author_role" json:"authorRole"`
	Content    string             `bson:"content" json:"content"`
	Links      []string           `bson:"links,omitempty" json:"links,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// MessageRoleFor maps a profile role to the author role shown on threads.
func MessageRoleFor(role string) string {
	if role == RoleStudent {
		return AuthorStudent
	}
	return AuthorFaculty
}
