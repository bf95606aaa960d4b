// Package sweep removes expired sheet snapshots in the background.
package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper deletes expired entries and reports how many were removed.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Start launches a loop that periodically sweeps expired snapshots.
// It blocks until the context is cancelled.
func Start(ctx context.Context, store Sweeper, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.SweepExpired(ctx)
			if err != nil {
				log.Debug().Err(err).Msg("snapshot sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("swept expired snapshots")
			}
		}
	}
}
