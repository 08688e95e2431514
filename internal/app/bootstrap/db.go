// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/dforrest/communityhub/internal/app/system/indexes"
	"go.uber.org/zap"
)

// EnsureSchema creates the indexes every collection depends on. The
// uniqueness invariants (one user per external id, one community name
// per organization) are enforced here rather than in application code.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index creation failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ensured")
	return nil
}
