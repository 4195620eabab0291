// internal/app/features/groups/handler.go
package groups

import (
	allocationstore "github.com/dalemusser/projecthub/internal/app/store/allocations"
	groupstore "github.com/dalemusser/projecthub/internal/app/store/groups"
	memberstore "github.com/dalemusser/projecthub/internal/app/store/members"
	preferencestore "github.com/dalemusser/projecthub/internal/app/store/preferences"
	profilestore "github.com/dalemusser/projecthub/internal/app/store/profiles"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature:
// creation, join-by-code, and the group reads (own group, by id, by
// department with allocation detail flags).
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	Groups      *groupstore.Store
	Members     *memberstore.Store
	Profiles    *profilestore.Store
	Preferences *preferencestore.Store
	Allocations *allocationstore.Store
}

// NewHandler constructs a groups Handler. It is called from the bootstrap
// BuildHandler function, where the application's DB and logger are already
// initialized.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		Groups:      groupstore.New(db),
		Members:     memberstore.New(db),
		Profiles:    profilestore.New(db),
		Preferences: preferencestore.New(db),
		Allocations: allocationstore.New(db),
	}
}
