// internal/app/features/invites/handler.go

// Package invites is the external-facing join flow: an invite carries a
// bcrypt-hashed join code addressed to a phone number; accepting it
// walks the full pipeline (code check, identity resolution, membership
// add with fan-out).
package invites

import (
	"github.com/dforrest/communityhub/internal/app/system/identity"
	"github.com/dforrest/communityhub/internal/app/system/membership"
	"github.com/dforrest/communityhub/internal/app/system/ratelimit"
	"github.com/dforrest/communityhub/internal/app/system/sms"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Invites.
type Handler struct {
	DB          *mongo.Database
	Provider    identity.Provider
	Resolver    *identity.Resolver
	Memberships *membership.Service
	Sender      sms.Sender
	Limiter     *ratelimit.Limiter
	Log         *zap.Logger
}

// NewHandler constructs an Invites handler. limiter guards the accept
// endpoint against code guessing.
func NewHandler(db *mongo.Database, provider identity.Provider, resolver *identity.Resolver, memberships *membership.Service, sender sms.Sender, limiter *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Provider:    provider,
		Resolver:    resolver,
		Memberships: memberships,
		Sender:      sender,
		Limiter:     limiter,
		Log:         logger,
	}
}
