package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxGroupSize is the hard cap on members per project team.
const MaxGroupSize = 3

// Group is a student project team.
//
// DisplayID is the human-readable id shown on dashboards: the department
// code plus a zero-padded per-department serial (e.g. "IT03"). TeamCode is
// the 5-character invite code members use to join; globally unique.
//
// NOTE: membership is not embedded here. The group_members collection is
// authoritative, with a unique index on profile_id so a student can belong
// to at most one group.
type Group struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayID  string             `bson:"display_id" json:"groupId"`
	TeamCode   string             `bson:"team_code" json:"teamCode"`
	Department string             `bson:"department" json:"department"`
	CreatedBy  primitive.ObjectID `bson:"created_by" json:"createdBy"`
	IsFull     bool               `bson:"is_full" json:"isFull"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// GroupMember links a profile to its group. One document per profile.
type GroupMember struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID    primitive.ObjectID `bson:"group_id" json:"groupId"`
	ProfileID  primitive.ObjectID `bson:"profile_id" json:"profileId"`
	Department string             `bson:"department" json:"department"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// GroupCounter backs the per-department display-id serial.
type GroupCounter struct {
	Department string `bson:"department"`
	Counter    int    `bson:"counter"`
}
