// internal/app/features/reviews/handler.go
package reviews

import (
	groupstore "github.com/dalemusser/projecthub/internal/app/store/groups"
	memberstore "github.com/dalemusser/projecthub/internal/app/store/members"
	messagestore "github.com/dalemusser/projecthub/internal/app/store/messages"
	reviewstore "github.com/dalemusser/projecthub/internal/app/store/reviews"
	topicstore "github.com/dalemusser/projecthub/internal/app/store/topics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the review pipeline:
// department rollouts, progress submissions, mentor feedback, completion,
// the pipeline summary, and the per-session discussion thread.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Reviews  *reviewstore.Store
	Groups   *groupstore.Store
	Members  *memberstore.Store
	Topics   *topicstore.Store
	Messages *messagestore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Reviews:  reviewstore.New(db),
		Groups:   groupstore.New(db),
		Members:  memberstore.New(db),
		Topics:   topicstore.New(db),
		Messages: messagestore.New(db),
	}
}
