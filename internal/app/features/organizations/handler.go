// internal/app/features/organizations/handler.go
package organizations

import (
	"github.com/dforrest/communityhub/internal/app/system/cascade"
	"github.com/dforrest/communityhub/internal/app/system/provision"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Organizations.
type Handler struct {
	DB          *mongo.Database
	Provisioner *provision.Orchestrator
	Cascader    *cascade.Manager
	Log         *zap.Logger
}

// NewHandler constructs an Organizations handler.
func NewHandler(db *mongo.Database, provisioner *provision.Orchestrator, cascader *cascade.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Provisioner: provisioner,
		Cascader:    cascader,
		Log:         logger,
	}
}
