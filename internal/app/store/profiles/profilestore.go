// internal/app/store/profiles/profilestore.go
package profilestore

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

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("a profile with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrDuplicateEmail
		}
		return models.Profile{}, err
	}
	return p, nil
}

// FacultyByDepartment returns the mentors of a department: faculty plus the
// super admin, sorted by name.
func (s *Store) FacultyByDepartment(ctx context.Context, dept string) ([]models.Profile, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"department": dept,
		"role":       bson.M{"$in": []string{models.RoleFaculty, models.RoleSuperAdmin}},
	}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByIDs returns the profiles for the given ids, in no particular order.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var out []models.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
