// internal/app/policy/grouppolicy.go
package grouppolicy

import (
	"context"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/system/authz"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsLeader returns true if the given profile created the group. The
// creator stays leader for the group's lifetime.
func IsLeader(ctx context.Context, db *mongo.Database, groupID, profileID primitive.ObjectID) (bool, error) {
	c := db.Collection("groups")
	n, err := c.CountDocuments(ctx, bson.M{
		"_id":        groupID,
		"created_by": profileID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsMemberOf returns true if the given profile belongs to the given group
// according to the authoritative group_members collection.
func IsMemberOf(ctx context.Context, db *mongo.Database, groupID, profileID primitive.ObjectID) (bool, error) {
	c := db.Collection("group_members")
	n, err := c.CountDocuments(ctx, bson.M{
		"group_id":   groupID,
		"profile_id": profileID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemberGroupID returns the id of the group the profile belongs to, or
// primitive.NilObjectID when they have none.
func MemberGroupID(ctx context.Context, db *mongo.Database, profileID primitive.ObjectID) (primitive.ObjectID, error) {
	c := db.Collection("group_members")
	var m struct {
		GroupID primitive.ObjectID `bson:"group_id"`
	}
	err := c.FindOne(ctx, bson.M{"profile_id": profileID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, nil
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return m.GroupID, nil
}

// CanViewGroup reports whether the current request user may read the
// group's data:
// - Super admins and faculty of the group's department always can
// - Students only if they are a member of this specific group
// Returns an error only on database failure, so callers can distinguish
// "not authorized" (false, nil) from a failed check (false, err).
func CanViewGroup(ctx context.Context, db *mongo.Database, r *http.Request, groupID primitive.ObjectID, groupDept string) (bool, error) {
	role, dept, pid, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	if models.IsMentorRole(role) {
		return role == models.RoleSuperAdmin || dept == groupDept, nil
	}
	return IsMemberOf(ctx, db, groupID, pid)
}
