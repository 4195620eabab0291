// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/projecthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the group_members collection: the authoritative join between
// profiles and groups. The unique index on profile_id is what enforces
// "a student belongs to at most one group".
type Store struct {
	c *mongo.Collection
}

var ErrAlreadyInGroup = errors.New("profile is already a member of a group")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_members")}
}

// Add links a profile to a group.
func (s *Store) Add(ctx context.Context, groupID, profileID primitive.ObjectID, dept string) error {
	m := models.GroupMember{
		ID:         primitive.NewObjectID(),
		GroupID:    groupID,
		ProfileID:  profileID,
		Department: dept,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrAlreadyInGroup
		}
		return err
	}
	return nil
}

// GroupIDFor returns the group a profile belongs to.
// mongo.ErrNoDocuments means the profile has no group.
func (s *Store) GroupIDFor(ctx context.Context, profileID primitive.ObjectID) (primitive.ObjectID, error) {
	var m models.GroupMember
	err := s.c.FindOne(ctx, bson.M{"profile_id": profileID}).Decode(&m)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return m.GroupID, nil
}

// MembersOf returns a group's memberships in join order.
func (s *Store) MembersOf(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMember, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.GroupMember
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountOf returns the number of members in a group.
func (s *Store) CountOf(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}
