// internal/app/features/mentorforms/handler.go
package mentorforms

import (
	formstore "github.com/dalemusser/projecthub/internal/app/store/mentorforms"
	profilestore "github.com/dalemusser/projecthub/internal/app/store/profiles"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the mentor allocation
// form feature: form creation, deactivation, and the active-form read.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Forms    *formstore.Store
	Profiles *profilestore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Forms:    formstore.New(db),
		Profiles: profilestore.New(db),
	}
}
