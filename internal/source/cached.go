package source

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/sheetmark/internal/core/sheet"
)

// Cached serves snapshots from a cache and falls back to the wrapped source
// on a miss. Cache failures are logged and never fail a load.
type Cached struct {
	inner      Source
	cache      sheet.Cache
	workbookID string
	ttl        time.Duration
	refresh    bool
	log        zerolog.Logger
}

// CachedOptions configures a Cached source.
type CachedOptions struct {
	TTL time.Duration
	// Refresh skips the cache read but still stores the fresh snapshot.
	Refresh bool
}

func NewCached(inner Source, cache sheet.Cache, workbookID string, opts CachedOptions, logger zerolog.Logger) *Cached {
	return &Cached{
		inner:      inner,
		cache:      cache,
		workbookID: workbookID,
		ttl:        opts.TTL,
		refresh:    opts.Refresh,
		log:        logger,
	}
}

func (c *Cached) Snapshot(ctx context.Context) (sheet.Snapshot, error) {
	if !c.refresh {
		snap, err := c.cache.Get(ctx, c.workbookID)
		switch {
		case err == nil:
			c.log.Debug().Str("workbook", c.workbookID).Time("fetched_at", snap.FetchedAt).Msg("sheet cache hit")
			return snap, nil
		case errors.Is(err, sheet.ErrSnapshotNotFound):
			c.log.Debug().Str("workbook", c.workbookID).Msg("sheet cache miss")
		default:
			c.log.Warn().Err(err).Str("workbook", c.workbookID).Msg("sheet cache read failed")
		}
	}

	snap, err := c.inner.Snapshot(ctx)
	if err != nil {
		return sheet.Snapshot{}, err
	}
	snap.WorkbookID = c.workbookID

	if err := c.cache.Put(ctx, snap, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("workbook", c.workbookID).Msg("sheet cache write failed")
	}
	return snap, nil
}

// Invalidate drops the cached snapshot so the next load hits the source.
func (c *Cached) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, c.workbookID)
}
