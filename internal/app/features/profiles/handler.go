// internal/app/features/profiles/handler.go
package profiles

import (
	profilestore "github.com/dalemusser/projecthub/internal/app/store/profiles"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves profile reads: the caller's own profile and the
// faculty roster used to build mentor allocation forms.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Profiles *profilestore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Profiles: profilestore.New(db),
	}
}
