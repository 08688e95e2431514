// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: WAFFLE's CoreConfig
// handles framework settings like HTTP ports, TLS, logging level, and
// request limits. Everything specific to this application lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Identity provider (upstream account system; mirrors users to us
	// via webhook)
	IdentityProviderURL string // Base URL of the provider API
	IdentityProviderKey string // Bearer token for provider calls

	// Identity resolver bounds: how long to poll for the provider's
	// webhook mirror to land in the local users collection.
	ResolverMaxAttempts int
	ResolverInterval    time.Duration

	// SMS gateway for notification fan-out and invite codes
	SMSGatewayURL string // Base URL of the SMS provider
	SMSGatewayKey string // Bearer token for SMS calls
	SMSDisabled   bool   // When true, messages go to a no-op sender (dev)

	// Invite accept rate limiting (per client IP)
	InviteAcceptLimit  int           // Attempts allowed per window
	InviteAcceptWindow time.Duration // Window duration

	// Invite cleanup worker
	InviteCleanupInterval time.Duration

	// Base URL for deep links in notification texts
	BaseURL string // e.g., "https://communityhub.example.com"
}
