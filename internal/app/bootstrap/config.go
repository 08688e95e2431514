// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CommunityHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, identity_provider_url, etc.
//   - Environment variables: COMMUNITYHUB_MONGO_URI, COMMUNITYHUB_IDENTITY_PROVIDER_URL, etc.
//   - Command-line flags: --mongo_uri, --identity_provider_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "community_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Identity provider
	{Name: "identity_provider_url", Default: "http://localhost:4000", Desc: "Identity provider base URL"},
	{Name: "identity_provider_key", Default: "", Desc: "Identity provider API key"},
	{Name: "resolver_max_attempts", Default: 5, Desc: "Attempts to poll for a webhook-mirrored user"},
	{Name: "resolver_interval", Default: "1s", Desc: "Delay between resolver attempts (e.g., 1s, 500ms)"},

	// SMS gateway
	{Name: "sms_gateway_url", Default: "http://localhost:4100", Desc: "SMS gateway base URL"},
	{Name: "sms_gateway_key", Default: "", Desc: "SMS gateway API key"},
	{Name: "sms_disabled", Default: false, Desc: "Route all SMS to a no-op sender (dev/test)"},

	// Invite accept rate limiting
	{Name: "invite_accept_limit", Default: 10, Desc: "Invite accept attempts allowed per window per IP"},
	{Name: "invite_accept_window", Default: "1m", Desc: "Invite accept rate-limit window"},

	// Invite cleanup worker
	{Name: "invite_cleanup_interval", Default: "1h", Desc: "How often to sweep expired invites"},

	// Base URL for deep links in notification texts
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for notification deep links"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, COMMUNITYHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COMMUNITYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		IdentityProviderURL: appValues.String("identity_provider_url"),
		IdentityProviderKey: appValues.String("identity_provider_key"),
		ResolverMaxAttempts: appValues.Int("resolver_max_attempts"),
		ResolverInterval:    appValues.Duration("resolver_interval", time.Second),

		SMSGatewayURL: appValues.String("sms_gateway_url"),
		SMSGatewayKey: appValues.String("sms_gateway_key"),
		SMSDisabled:   appValues.Bool("sms_disabled"),

		InviteAcceptLimit:  appValues.Int("invite_accept_limit"),
		InviteAcceptWindow: appValues.Duration("invite_accept_window", time.Minute),

		InviteCleanupInterval: appValues.Duration("invite_cleanup_interval", time.Hour),

		BaseURL: appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.ResolverMaxAttempts < 1 {
		return fmt.Errorf("resolver_max_attempts must be at least 1, got %d", appCfg.ResolverMaxAttempts)
	}
	if appCfg.ResolverInterval <= 0 {
		return fmt.Errorf("resolver_interval must be positive, got %s", appCfg.ResolverInterval)
	}
	if appCfg.InviteAcceptLimit < 1 {
		return fmt.Errorf("invite_accept_limit must be at least 1, got %d", appCfg.InviteAcceptLimit)
	}
	return nil
}
