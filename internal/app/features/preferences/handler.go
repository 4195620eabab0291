// internal/app/features/preferences/handler.go
package preferences

import (
	allocationstore "github.com/dalemusser/projecthub/internal/app/store/allocations"
	groupstore "github.com/dalemusser/projecthub/internal/app/store/groups"
	memberstore "github.com/dalemusser/projecthub/internal/app/store/members"
	formstore "github.com/dalemusser/projecthub/internal/app/store/mentorforms"
	preferencestore "github.com/dalemusser/projecthub/internal/app/store/preferences"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for preference submission.
// Submitting writes the preference row and its three pending allocations
// in one transaction.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	Groups      *groupstore.Store
	Members     *memberstore.Store
	Forms       *formstore.Store
	Preferences *preferencestore.Store
	Allocations *allocationstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		Groups:      groupstore.New(db),
		Members:     memberstore.New(db),
		Forms:       formstore.New(db),
		Preferences: preferencestore.New(db),
		Allocations: allocationstore.New(db),
	}
}
