// internal/app/store/reviews/reviewstore.go
package reviewstore

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

// ErrWrongStatus is returned when a session transition targets a session
// that is not in an eligible state.
var ErrWrongStatus = errors.New("review session is not in an eligible status")

type Store struct {
	rollouts *mongo.Collection
	sessions *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		rollouts: db.Collection("review_rollouts"),
		sessions: db.Collection("review_sessions"),
	}
}

// CreateRollout activates a review phase for a department. Idempotent: a
// repeat returns the existing rollout unchanged.
func (s *Store) CreateRollout(ctx context.Context, dept, reviewType string, createdBy primitive.ObjectID) (models.ReviewRollout, bool, error) {
	r := models.ReviewRollout{
		ID:         primitive.NewObjectID(),
		Department: dept,
		ReviewType: reviewType,
		IsActive:   true,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.rollouts.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			existing, gerr := s.GetRollout(ctx, dept, reviewType)
			if gerr != nil {
				return models.ReviewRollout{}, false, gerr
			}
			return existing, false, nil
		}
		return models.ReviewRollout{}, false, err
	}
	return r, true, nil
}

func (s *Store) GetRollout(ctx context.Context, dept, reviewType string) (models.ReviewRollout, error) {
	var r models.ReviewRollout
	err := s.rollouts.FindOne(ctx, bson.M{"department": dept, "review_type": reviewType}).Decode(&r)
	if err != nil {
		return models.ReviewRollout{}, err
	}
	return r, nil
}

// RolloutsForDepartment lists the phases rolled out to a department.
func (s *Store) RolloutsForDepartment(ctx context.Context, dept string) ([]models.ReviewRollout, error) {
	cur, err := s.rollouts.Find(ctx, bson.M{"department": dept, "is_active": true},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.ReviewRollout
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSession fetches a group's session for one phase.
// mongo.ErrNoDocuments means the group has not started that phase.
func (s *Store) GetSession(ctx context.Context, groupID primitive.ObjectID, reviewType string) (models.ReviewSession, error) {
	var sess models.ReviewSession
	err := s.sessions.FindOne(ctx, bson.M{"group_id": groupID, "review_type": reviewType}).Decode(&sess)
	if err != nil {
		return models.ReviewSession{}, err
	}
	return sess, nil
}

// SessionsForGroup lists every session a group holds, across phases.
func (s *Store) SessionsForGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.ReviewSession, error) {
	cur, err := s.sessions.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	var out []models.ReviewSession
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertSubmission records a group's progress for one phase. A resubmission
// updates the same document, replaces the progress fields, clears prior
// feedback, and resets status to submitted. The unique (group_id,
// review_type) index keeps the session id stable across resubmits.
func (s *Store) UpsertSubmission(ctx context.Context, groupID primitive.ObjectID, reviewType string, pct int, desc string, submittedBy primitive.ObjectID) (models.ReviewSession, error) {
	now := time.Now().UTC()
	filter := bson.M{"group_id": groupID, "review_type": reviewType}
	update := bson.M{
		"$set": bson.M{
			"status":               models.SessionSubmitted,
			"progress_percentage":  pct,
			"progress_description": desc,
			"submitted_by":         submittedBy,
			"submitted_at":         now,
		},
		"$unset": bson.M{
			"mentor_feedback":   "",
			"feedback_given_by": "",
			"feedback_given_at": "",
			"completed_at":      "",
		},
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"group_id":    groupID,
			"review_type": reviewType,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var sess models.ReviewSession
	if err := s.sessions.FindOneAndUpdate(ctx, filter, update, opts).Decode(&sess); err != nil {
		return models.ReviewSession{}, err
	}
	return sess, nil
}

// GiveFeedback attaches mentor feedback to a submitted session.
func (s *Store) GiveFeedback(ctx context.Context, sessionID primitive.ObjectID, feedback string, mentorID primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.sessions.UpdateOne(ctx,
		bson.M{"_id": sessionID, "status": models.SessionSubmitted},
		bson.M{"$set": bson.M{
			"status":            models.SessionFeedbackGiven,
			"mentor_feedback":   feedback,
			"feedback_given_by": mentorID,
			"feedback_given_at": now,
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

// MarkComplete closes a session that has received feedback.
func (s *Store) MarkComplete(ctx context.Context, sessionID primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.sessions.UpdateOne(ctx,
		bson.M{"_id": sessionID, "status": models.SessionFeedbackGiven},
		bson.M{"$set": bson.M{
			"status":       models.SessionCompleted,
			"completed_at": now,
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

// GetSessionByID fetches a session by id.
func (s *Store) GetSessionByID(ctx context.Context, id primitive.ObjectID) (models.ReviewSession, error) {
	var sess models.ReviewSession
	if err := s.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&sess); err != nil {
		return models.ReviewSession{}, err
	}
	return sess, nil
}
