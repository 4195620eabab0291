// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"time"

	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	topic  *mongo.Collection
	review *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		topic:  db.Collection("topic_messages"),
		review: db.Collection("review_messages"),
	}
}

func (s *Store) AddTopicMessage(ctx context.Context, m models.TopicMessage) (models.TopicMessage, error) {
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	if _, err := s.topic.InsertOne(ctx, m); err != nil {
		return models.TopicMessage{}, err
	}
	return m, nil
}

// TopicThread lists a topic's messages oldest first.
func (s *Store) TopicThread(ctx context.Context, topicID primitive.ObjectID) ([]models.TopicMessage, error) {
	cur, err := s.topic.Find(ctx, bson.M{"topic_id": topicID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.TopicMessage
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GroupTopicThread lists a group's topic messages across all of its
// topics, oldest first.
func (s *Store) GroupTopicThread(ctx context.Context, groupID primitive.ObjectID) ([]models.TopicMessage, error) {
	cur, err := s.topic.Find(ctx, bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.TopicMessage
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AddReviewMessage(ctx context.Context, m models.ReviewMessage) (models.ReviewMessage, error) {
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	if _, err := s.review.InsertOne(ctx, m); err != nil {
		return models.ReviewMessage{}, err
	}
	return m, nil
}

// ReviewThread lists a session's messages oldest first.
func (s *Store) ReviewThread(ctx context.Context, sessionID primitive.ObjectID) ([]models.ReviewMessage, error) {
	cur, err := s.review.Find(ctx, bson.M{"session_id": sessionID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.ReviewMessage
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
