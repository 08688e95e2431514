// internal/app/system/identity/resolver.go
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dforrest/communityhub/internal/app/system/faults"
	"github.com/dforrest/communityhub/internal/app/system/metrics"
	"github.com/dforrest/communityhub/internal/domain/models"
	"github.com/flowchartsman/retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Resolver defaults. Worst case wait is MaxAttempts × Interval.
const (
	DefaultMaxAttempts = 5
	DefaultInterval    = time.Second
)

// UserGetter is the slice of the user store the resolver needs.
type UserGetter interface {
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
}

// Resolver reconciles an externally issued identity key with its local
// user record by bounded polling. Read-only; safe to invoke repeatedly.
type Resolver struct {
	users       UserGetter
	maxAttempts int
	interval    time.Duration
	collector   *metrics.Collector
	log         *zap.Logger
}

// NewResolver builds a Resolver. Non-positive maxAttempts/interval fall
// back to the defaults; collector may be nil.
func NewResolver(users UserGetter, maxAttempts int, interval time.Duration, collector *metrics.Collector, logger *zap.Logger) *Resolver {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Resolver{
		users:       users,
		maxAttempts: maxAttempts,
		interval:    interval,
		collector:   collector,
		log:         logger,
	}
}

// ResolveLocalUser polls the local store for the mirror of externalID.
// The first hit short-circuits the loop. When every attempt comes back
// empty the caller gets faults.ErrSyncTimeout: the identity may well
// exist upstream, its mirror just has not landed within the budget.
// Store failures other than "no documents" abort the loop immediately.
func (r *Resolver) ResolveLocalUser(ctx context.Context, externalID string) (*models.User, error) {
	if externalID == "" {
		return nil, fmt.Errorf("%w: empty external id", faults.ErrInvalidReference)
	}

	var user *models.User
	attempt := 0
	retrier := retry.NewRetrier(r.maxAttempts, r.interval, r.interval)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		attempt++
		u, err := r.users.GetByExternalID(ctx, externalID)
		if err == nil {
			user = u
			return nil
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Debug("identity not mirrored yet",
				zap.String("external_id", externalID),
				zap.Int("attempt", attempt))
			return err
		}
		return retry.Stop(err)
	})
	if err == nil {
		return user, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		if r.collector != nil {
			r.collector.RecordResolverTimeout()
		}
		r.log.Warn("identity sync window exhausted",
			zap.String("external_id", externalID),
			zap.Int("attempts", attempt))
		return nil, fmt.Errorf("%w: external id %s after %d attempts", faults.ErrSyncTimeout, externalID, attempt)
	}
	return nil, err
}
