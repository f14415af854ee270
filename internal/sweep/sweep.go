// Package sweep runs the periodic expiry check over the donation collection.
// The store does the actual marking; this package owns the schedule: one
// kick shortly after startup, then a fixed cadence until the context is
// cancelled at shutdown.
package sweep

import (
	"context"
	"log/slog"
	"time"
)

// startupDelay is how long after startup the first sweep runs.
const startupDelay = time.Second

// Collection is the mutation the sweeper drives. *store.Store satisfies it.
type Collection interface {
	Sweep(now time.Time) (changed int, err error)
}

// Sweeper periodically marks stale unclaimed donations as expired.
type Sweeper struct {
	store    Collection
	log      *slog.Logger
	interval time.Duration
}

// New constructs a Sweeper over the given collection.
func New(store Collection, log *slog.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, log: log, interval: interval}
}

// Run blocks, sweeping once shortly after startup and then every interval,
// until ctx is cancelled. Sweep failures are logged and the cadence
// continues; the sweep is idempotent, so the next run repairs anything a
// failed persist left stale.
func (s *Sweeper) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(startupDelay):
		s.sweep()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	changed, err := s.store.Sweep(time.Now())
	if err != nil {
		s.log.Warn("expiry sweep persist failed", "error", err)
		return
	}
	if changed > 0 {
		s.log.Info("expiry sweep marked donations", "changed", changed)
	}
}
