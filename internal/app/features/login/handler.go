// internal/app/features/login/handler.go
package login

import (
	"fmt"

	profilestore "github.com/dalemusser/projecthub/internal/app/store/profiles"
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the login feature:
// signup, login, logout, and the current-profile read.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Profiles   *profilestore.Store

	// accessCodes maps department to the code a signup must present to
	// register as super_admin for that department.
	accessCodes map[string]string
}

// NewHandler constructs a login Handler. accessYear feeds the
// per-department super admin access codes (e.g. "2025" yields ITADMIN2025).
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, accessYear string, logger *zap.Logger) *Handler {
	codes := make(map[string]string, len(models.Departments))
	for _, dept := range models.Departments {
		codes[dept] = fmt.Sprintf("%sADMIN%s", dept, accessYear)
	}
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		Profiles:   profilestore.New(db),
		accessCodes: codes,
	}
}
