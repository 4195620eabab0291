// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, CORS, request limits). AppConfig is everything specific
// to ProjectHub: the Mongo connection, session cookies, the super admin
// access codes, and the DB timeout knobs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: projecthub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// AdminAccessYear feeds the per-department super admin signup codes,
	// e.g. "2025" yields ITADMIN2025 for the IT department.
	AdminAccessYear string

	// DB operation timeouts
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
