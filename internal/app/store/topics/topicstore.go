// internal/app/store/topics/topicstore.go
package topicstore

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

// ErrWrongStatus is returned when a status transition targets a topic
// that is not in an eligible state.
var ErrWrongStatus = errors.New("topic is not in an eligible status")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("project_topics")}
}

func (s *Store) Create(ctx context.Context, t models.ProjectTopic) (models.ProjectTopic, error) {
	t.ID = primitive.NewObjectID()
	t.Status = models.TopicSubmitted
	t.SubmittedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.ProjectTopic{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ProjectTopic, error) {
	var t models.ProjectTopic
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.ProjectTopic{}, err
	}
	return t, nil
}

// ByGroup lists a group's topics, newest first.
func (s *Store) ByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.ProjectTopic, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var out []models.ProjectTopic
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountOpen counts the group's non-rejected topics, which is what the
// concurrent-proposal cap is measured against.
func (s *Store) CountOpen(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"status":   bson.M{"$ne": models.TopicRejected},
	})
}

// HasApproved reports whether the group already has an approved topic.
func (s *Store) HasApproved(ctx context.Context, groupID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"status":   models.TopicApproved,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetStatus moves a topic from one of the allowed source statuses to the
// target status, stamping the reviewer. ErrWrongStatus when the topic is
// not in any of the from statuses.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, from []string, to string, reviewedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{
			"status":      to,
			"reviewed_by": reviewedBy,
			"reviewed_at": now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrWrongStatus
	}
	return nil
}

// RejectOpenSiblings rejects every non-approved, non-rejected topic of the
// group except the one just approved. Runs in the same transaction as the
// approval so at most one approved topic is ever observable.
func (s *Store) RejectOpenSiblings(ctx context.Context, groupID, approvedID, reviewedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateMany(ctx,
		bson.M{
			"group_id": groupID,
			"_id":      bson.M{"$ne": approvedID},
			"status":   bson.M{"$nin": bson.A{models.TopicApproved, models.TopicRejected}},
		},
		bson.M{"$set": bson.M{
			"status":      models.TopicRejected,
			"reviewed_by": reviewedBy,
			"reviewed_at": now,
		}},
	)
	return err
}
