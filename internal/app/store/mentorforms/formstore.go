// internal/app/store/mentorforms/formstore.go
package formstore

import (
	"context"
	"time"

	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("mentor_forms")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.MentorForm, error) {
	var f models.MentorForm
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return models.MentorForm{}, err
	}
	return f, nil
}

// ActiveForDepartment returns the department's active form.
// mongo.ErrNoDocuments means no form is currently open.
func (s *Store) ActiveForDepartment(ctx context.Context, dept string) (models.MentorForm, error) {
	var f models.MentorForm
	err := s.c.FindOne(ctx, bson.M{"department": dept, "is_active": true}).Decode(&f)
	if err != nil {
		return models.MentorForm{}, err
	}
	return f, nil
}

// DeactivateActive retires whatever form is currently active for the
// department. Callers run this and Create inside one transaction so the
// "at most one active form" invariant holds at every point a reader can
// observe.
func (s *Store) DeactivateActive(ctx context.Context, dept string) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"department": dept, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}},
	)
	return err
}

// Create inserts a new active form.
func (s *Store) Create(ctx context.Context, f models.MentorForm) (models.MentorForm, error) {
	now := time.Now().UTC()
	f.ID = primitive.NewObjectID()
	f.IsActive = true
	f.CreatedAt = now
	f.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.MentorForm{}, err
	}
	return f, nil
}

// Deactivate retires a single form by id.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	}})
	return err
}
