// internal/app/store/preferences/preferencestore.go
package preferencestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/projecthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrAlreadySubmitted is returned when a group has already submitted
// preferences for a form. Backed by the unique (group_id, form_id) index.
var ErrAlreadySubmitted = errors.New("preferences already submitted for this form")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("mentor_preferences")}
}

func (s *Store) Create(ctx context.Context, p models.MentorPreference) (models.MentorPreference, error) {
	p.ID = primitive.NewObjectID()
	p.SubmittedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.MentorPreference{}, ErrAlreadySubmitted
		}
		return models.MentorPreference{}, err
	}
	return p, nil
}

func (s *Store) GetByGroupAndForm(ctx context.Context, groupID, formID primitive.ObjectID) (models.MentorPreference, error) {
	var p models.MentorPreference
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "form_id": formID}).Decode(&p)
	if err != nil {
		return models.MentorPreference{}, err
	}
	return p, nil
}

func (s *Store) Exists(ctx context.Context, groupID, formID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "form_id": formID}, nil)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
