// internal/app/features/memberships/handler.go
package memberships

import (
	"github.com/dforrest/communityhub/internal/app/system/membership"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for membership mutations.
// All routes hang off /users/{id} since memberships live on the user
// document.
type Handler struct {
	Memberships *membership.Service
	Log         *zap.Logger
}

// NewHandler constructs a Memberships handler.
func NewHandler(memberships *membership.Service, logger *zap.Logger) *Handler {
	return &Handler{Memberships: memberships, Log: logger}
}
