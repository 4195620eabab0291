package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MentorForm is a department's mentor-allocation form: the list of faculty
// currently offered to student groups as mentor choices. At most one form
// per department is active at a time; activating a new one deactivates the
// previous inside the same transaction.
type MentorForm struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Department string               `bson:"department" json:"department"`
	IsActive   bool                 `bson:"is_active" json:"isActive"`
	CreatedBy  primitive.ObjectID   `bson:"created_by" json:"createdBy"`
	MentorIDs  []primitive.ObjectID `bson:"mentor_ids" json:"mentorIds"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasMentor reports whether the given profile is offered on this form.
func (f MentorForm) HasMentor(id primitive.ObjectID) bool {
	for _, m := range f.MentorIDs {
		if m == id {
			return true
		}
	}
	return false
}
