// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	invitestore "github.com/dforrest/communityhub/internal/app/store/invites"
	"github.com/dforrest/communityhub/internal/app/system/workers"
	"go.uber.org/zap"
)

// inviteCleanup is the background sweeper for expired invites. Started
// here, stopped in Shutdown.
var inviteCleanup *workers.InviteCleanup

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	inviteCleanup = workers.NewInviteCleanup(
		invitestore.New(deps.MongoDatabase),
		logger,
		appCfg.InviteCleanupInterval,
	)
	inviteCleanup.Start()
	return nil
}
