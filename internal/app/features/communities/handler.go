// internal/app/features/communities/handler.go
package communities

import (
	"github.com/dforrest/communityhub/internal/app/system/cascade"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Communities.
type Handler struct {
	DB       *mongo.Database
	Cascader *cascade.Manager
	Log      *zap.Logger
}

// NewHandler constructs a Communities handler.
func NewHandler(db *mongo.Database, cascader *cascade.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Cascader: cascader,
		Log:      logger,
	}
}
