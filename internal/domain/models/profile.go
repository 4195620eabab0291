package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a profile can hold. SuperAdmin doubles as the department
// coordinator: it can do everything faculty can, plus run forms and
// rollouts for its department.
const (
	RoleStudent    = "student"
	RoleFaculty    = "faculty"
	RoleSuperAdmin = "super_admin"
)

// Departments known to the system.
var Departments = []string{"IT", "CS", "ECS", "ETC", "BM"}

// Profile represents one person: students, faculty mentors, and the
// per-department super admin. Auth credentials live on the same document
// (email is the login id, password is a bcrypt hash).
type Profile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Department   string             `bson:"department" json:"department"`

	// Student-only fields.
	RollNumber string `bson:"roll_number,omitempty" json:"rollNumber,omitempty"`
	Semester   int    `bson:"semester,omitempty" json:"semester,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsMentorRole reports whether the role can act as a mentor
// (accept teams, review topics, give feedback).
func IsMentorRole(role string) bool {
	return role == RoleFaculty || role == RoleSuperAdmin
}

// ValidDepartment reports whether dept is one of the known departments.
func ValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}
