// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	communitiesfeature "github.com/dforrest/communityhub/internal/app/features/communities"
	healthfeature "github.com/dforrest/communityhub/internal/app/features/health"
	invitesfeature "github.com/dforrest/communityhub/internal/app/features/invites"
	membershipsfeature "github.com/dforrest/communityhub/internal/app/features/memberships"
	organizationsfeature "github.com/dforrest/communityhub/internal/app/features/organizations"
	usersfeature "github.com/dforrest/communityhub/internal/app/features/users"
	communitystore "github.com/dforrest/communityhub/internal/app/store/communities"
	deadletterstore "github.com/dforrest/communityhub/internal/app/store/deadletters"
	organizationstore "github.com/dforrest/communityhub/internal/app/store/organizations"
	userstore "github.com/dforrest/communityhub/internal/app/store/users"
	"github.com/dforrest/communityhub/internal/app/system/cascade"
	"github.com/dforrest/communityhub/internal/app/system/identity"
	"github.com/dforrest/communityhub/internal/app/system/membership"
	"github.com/dforrest/communityhub/internal/app/system/metrics"
	"github.com/dforrest/communityhub/internal/app/system/notify"
	"github.com/dforrest/communityhub/internal/app/system/provision"
	"github.com/dforrest/communityhub/internal/app/system/ratelimit"
	"github.com/dforrest/communityhub/internal/app/system/sms"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. The whole service wiring happens
// here: stores over the Mongo collections, the system services layered
// on them (membership, provisioning, cascade, notification fan-out,
// identity resolution), and finally the feature routers on top.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Stores, one per collection.
	users := userstore.New(db)
	organizations := organizationstore.New(db)
	communities := communitystore.New(db)
	deadletters := deadletterstore.New(db)

	// Metrics registry and collector.
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// SMS sender: real gateway, or a no-op in dev mode.
	var sender sms.Sender
	if appCfg.SMSDisabled || appCfg.SMSGatewayURL == "" {
		logger.Info("sms disabled, using nop sender")
		sender = sms.NopSender{Log: logger}
	} else {
		sender = sms.NewGateway(appCfg.SMSGatewayURL, appCfg.SMSGatewayKey, logger)
	}

	// Identity provider and the resolver that bounds the wait for its
	// webhook mirror.
	provider := identity.NewHTTPProvider(appCfg.IdentityProviderURL, appCfg.IdentityProviderKey, logger)
	resolver := identity.NewResolver(users, appCfg.ResolverMaxAttempts, appCfg.ResolverInterval, collector, logger)

	// System services.
	notifier := notify.New(users, communities, deadletters, sender, collector, appCfg.BaseURL, logger)
	memberships := membership.New(users, communities, organizations, notifier, collector, logger)
	provisioner := provision.New(organizations, communities, memberships, logger)
	cascader := cascade.New(organizations, communities, memberships, collector, logger)

	// Rate limiter for the invite accept endpoint.
	acceptLimiter := ratelimit.New(appCfg.InviteAcceptLimit, appCfg.InviteAcceptWindow)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus metrics.
	r.Handle("/metrics", metrics.Handler(registry))

	// Feature routers.
	orgHandler := organizationsfeature.NewHandler(db, provisioner, cascader, logger)
	r.Mount("/organizations", organizationsfeature.Routes(orgHandler))

	communityHandler := communitiesfeature.NewHandler(db, cascader, logger)
	r.Mount("/communities", communitiesfeature.Routes(communityHandler))

	userHandler := usersfeature.NewHandler(db, logger)
	membershipHandler := membershipsfeature.NewHandler(memberships, logger)
	r.Mount("/users", usersfeature.Routes(userHandler, membershipHandler))

	inviteHandler := invitesfeature.NewHandler(db, provider, resolver, memberships, sender, acceptLimiter, logger)
	r.Mount("/invites", invitesfeature.Routes(inviteHandler))

	return r, nil
}
