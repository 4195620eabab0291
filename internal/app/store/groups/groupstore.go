// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dalemusser/projecthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// teamCodeAlphabet omits 0/O and 1/I so codes survive being read aloud
// or copied from a whiteboard.
const (
	teamCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	teamCodeLength   = 5
)

type Store struct {
	c        *mongo.Collection
	counters *mongo.Collection
}

var ErrDuplicateTeamCode = errors.New("team code already in use")

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("groups"),
		counters: db.Collection("group_counters"),
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) GetByTeamCode(ctx context.Context, code string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"team_code": code}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// NextSerial atomically increments and returns the department's group
// counter, used to build display ids like "IT03".
func (s *Store) NextSerial(ctx context.Context, dept string) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.GroupCounter
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"department": dept},
		bson.M{"$inc": bson.M{"counter": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Counter, nil
}

// NewTeamCode returns a random invite code from the unambiguous alphabet.
func NewTeamCode() (string, error) {
	code := make([]byte, teamCodeLength)
	max := big.NewInt(int64(len(teamCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = teamCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// Create inserts a group. The team code carries a unique index; on the rare
// collision the caller retries with a fresh code.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateTeamCode
		}
		return models.Group{}, err
	}
	return g, nil
}

// SetFull flips the is_full flag.
func (s *Store) SetFull(ctx context.Context, id primitive.ObjectID, full bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_full":    full,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// ByDepartment returns a department's groups, oldest first (display-id order).
func (s *Store) ByDepartment(ctx context.Context, dept string) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, bson.M{"department": dept},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DisplayID formats the human-readable group id for a department serial.
func DisplayID(dept string, serial int) string {
	return fmt.Sprintf("%s%02d", dept, serial)
}
