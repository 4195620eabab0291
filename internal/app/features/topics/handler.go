// internal/app/features/topics/handler.go
package topics

import (
	groupstore "github.com/dalemusser/projecthub/internal/app/store/groups"
	memberstore "github.com/dalemusser/projecthub/internal/app/store/members"
	messagestore "github.com/dalemusser/projecthub/internal/app/store/messages"
	topicstore "github.com/dalemusser/projecthub/internal/app/store/topics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the project topic
// feature: submission, the faculty review decisions, and the discussion
// thread.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Topics   *topicstore.Store
	Groups   *groupstore.Store
	Members  *memberstore.Store
	Messages *messagestore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Topics:   topicstore.New(db),
		Groups:   groupstore.New(db),
		Members:  memberstore.New(db),
		Messages: messagestore.New(db),
	}
}
