// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	allocationsfeature "github.com/dalemusser/projecthub/internal/app/features/allocations"
	groupsfeature "github.com/dalemusser/projecthub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/projecthub/internal/app/features/health"
	loginfeature "github.com/dalemusser/projecthub/internal/app/features/login"
	mentorformsfeature "github.com/dalemusser/projecthub/internal/app/features/mentorforms"
	preferencesfeature "github.com/dalemusser/projecthub/internal/app/features/preferences"
	profilesfeature "github.com/dalemusser/projecthub/internal/app/features/profiles"
	reviewsfeature "github.com/dalemusser/projecthub/internal/app/features/reviews"
	topicsfeature "github.com/dalemusser/projecthub/internal/app/features/topics"
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the session manager, applies
// the session-loading middleware globally, and mounts the feature routers
// under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		// Authentication
		loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, appCfg.AdminAccessYear, logger)
		api.Mount("/auth", loginfeature.Routes(loginHandler))

		// Profiles
		profilesHandler := profilesfeature.NewHandler(deps.MongoDatabase, logger)
		api.Mount("/profiles", profilesfeature.Routes(profilesHandler, sessionMgr))

		// Group formation
		groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, logger)
		api.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

		// Mentor allocation forms
		formsHandler := mentorformsfeature.NewHandler(deps.MongoDatabase, logger)
		api.Mount("/mentor-forms", mentorformsfeature.Routes(formsHandler, sessionMgr))

		// Preference submission
		prefsHandler := preferencesfeature.NewHandler(deps.MongoDatabase, logger)
		api.Mount("/preferences", preferencesfeature.Routes(prefsHandler, sessionMgr))

		// Mentor allocation decisions
		allocsHandler := allocationsfeature.NewHandler(deps.MongoDatabase, logger)
		api.Mount("/allocations", allocationsfeature.Routes(allocsHandler, sessionMgr))

		// Topic approval workflow
		topicsHandler := topicsfeature.NewHandler(deps.MongoDatabase, logger)
		api.Mount("/topics", topicsfeature.Routes(topicsHandler, sessionMgr))

		// Review pipeline
		reviewsHandler := reviewsfeature.NewHandler(deps.MongoDatabase, logger)
		api.Mount("/reviews", reviewsfeature.Routes(reviewsHandler, sessionMgr))
	})

	return r, nil
}
