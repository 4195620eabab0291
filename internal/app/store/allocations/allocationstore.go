// internal/app/store/allocations/allocationstore.go
package allocationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotPending is returned when an accept or reject targets an allocation
// whose status has already been decided.
var ErrNotPending = errors.New("allocation is not pending")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("mentor_allocations")}
}

// CreateBatch inserts one pending allocation per ranked choice. Callers
// run this inside the same transaction as the preference insert.
func (s *Store) CreateBatch(ctx context.Context, groupID, formID primitive.ObjectID, choices []primitive.ObjectID) ([]models.MentorAllocation, error) {
	now := time.Now().UTC()
	allocs := make([]models.MentorAllocation, 0, len(choices))
	docs := make([]interface{}, 0, len(choices))
	for i, mentorID := range choices {
		a := models.MentorAllocation{
			ID:             primitive.NewObjectID(),
			GroupID:        groupID,
			MentorID:       mentorID,
			FormID:         formID,
			PreferenceRank: i + 1,
			Status:         models.AllocationPending,
			CreatedAt:      now,
		}
		allocs = append(allocs, a)
		docs = append(docs, a)
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return allocs, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.MentorAllocation, error) {
	var a models.MentorAllocation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.MentorAllocation{}, err
	}
	return a, nil
}

// ForMentor lists a mentor's allocations, newest first.
func (s *Store) ForMentor(ctx context.Context, mentorID primitive.ObjectID) ([]models.MentorAllocation, error) {
	return s.find(ctx, bson.M{"mentor_id": mentorID})
}

// ForGroup lists every allocation a group has, across all forms.
func (s *Store) ForGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.MentorAllocation, error) {
	return s.find(ctx, bson.M{"group_id": groupID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.MentorAllocation, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var out []models.MentorAllocation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Accept flips a pending allocation to accepted. The filter includes the
// pending status so a concurrent decision loses cleanly; the caller then
// rejects every sibling in the same transaction.
func (s *Store) Accept(ctx context.Context, id, decidedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.AllocationPending},
		bson.M{"$set": bson.M{
			"status":     models.AllocationAccepted,
			"decided_at": now,
			"decided_by": decidedBy,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotPending
	}
	return nil
}

// RejectSiblings rejects every allocation of the group except the one just
// accepted, regardless of their prior status.
func (s *Store) RejectSiblings(ctx context.Context, groupID, acceptedID, decidedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateMany(ctx,
		bson.M{"group_id": groupID, "_id": bson.M{"$ne": acceptedID}},
		bson.M{"$set": bson.M{
			"status":     models.AllocationRejected,
			"decided_at": now,
			"decided_by": decidedBy,
		}},
	)
	return err
}

// Reject declines a single pending allocation. Decided allocations are
// left alone.
func (s *Store) Reject(ctx context.Context, id, decidedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.AllocationPending},
		bson.M{"$set": bson.M{
			"status":     models.AllocationRejected,
			"decided_at": now,
			"decided_by": decidedBy,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotPending
	}
	return nil
}

// AcceptedForGroup returns the group's accepted allocation, if any.
func (s *Store) AcceptedForGroup(ctx context.Context, groupID primitive.ObjectID) (models.MentorAllocation, error) {
	var a models.MentorAllocation
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "status": models.AllocationAccepted}).Decode(&a)
	if err != nil {
		return models.MentorAllocation{}, err
	}
	return a, nil
}

// AcceptedForMentor lists the groups a mentor has taken on.
func (s *Store) AcceptedForMentor(ctx context.Context, mentorID primitive.ObjectID) ([]models.MentorAllocation, error) {
	return s.find(ctx, bson.M{"mentor_id": mentorID, "status": models.AllocationAccepted})
}
