// internal/app/system/workers/invitecleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	invitestore "github.com/dforrest/communityhub/internal/app/store/invites"
	"go.uber.org/zap"
)

// InviteCleanup is a background worker that deletes expired, unaccepted
// invites. MongoDB's TTL monitor does the same eventually; this keeps
// the collection tidy when the monitor lags.
type InviteCleanup struct {
	invites  *invitestore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewInviteCleanup creates the worker. interval controls how often the
// sweep runs.
func NewInviteCleanup(invites *invitestore.Store, logger *zap.Logger, interval time.Duration) *InviteCleanup {
	return &InviteCleanup{
		invites:  invites,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *InviteCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("invite cleanup worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *InviteCleanup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("invite cleanup worker stopped")
}

func (w *InviteCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *InviteCleanup) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.invites.CleanupExpired(ctx)
	if err != nil {
		w.log.Error("invite cleanup failed", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("removed expired invites", zap.Int64("count", count))
	}
}
