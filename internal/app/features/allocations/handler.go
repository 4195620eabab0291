// internal/app/features/allocations/handler.go
package allocations

import (
	allocationstore "github.com/dalemusser/projecthub/internal/app/store/allocations"
	groupstore "github.com/dalemusser/projecthub/internal/app/store/groups"
	memberstore "github.com/dalemusser/projecthub/internal/app/store/members"
	profilestore "github.com/dalemusser/projecthub/internal/app/store/profiles"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the allocation feature:
// the mentor's accept/reject decisions and the allocation reads on both
// sides of the offer.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	Allocations *allocationstore.Store
	Groups      *groupstore.Store
	Members     *memberstore.Store
	Profiles    *profilestore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		Allocations: allocationstore.New(db),
		Groups:      groupstore.New(db),
		Members:     memberstore.New(db),
		Profiles:    profilestore.New(db),
	}
}
