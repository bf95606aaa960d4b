package doctor

import (
	"context"
	"fmt"
)

// SnapshotSweeper is the part of the snapshot cache the cache check needs.
type SnapshotSweeper interface {
	ListWorkbooks(ctx context.Context) ([]string, error)
	CountExpired(ctx context.Context) (int64, error)
	SweepExpired(ctx context.Context) (int64, error)
}

// CacheCheck reports on the sheet snapshot cache and, with autofix, removes
// expired snapshots.
type CacheCheck struct {
	cache   SnapshotSweeper
	autofix bool
}

// NewCacheCheck creates a new cache check. A nil cache means caching is
// disabled.
func NewCacheCheck(cache SnapshotSweeper, autofix bool) *CacheCheck {
	return &CacheCheck{cache: cache, autofix: autofix}
}

func (c *CacheCheck) Name() string {
	return "Sheet Cache"
}

func (c *CacheCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.cache == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "cache",
			Status: StatusPass,
			Detail: "disabled",
		})
		return result
	}

	ids, err := c.cache.ListWorkbooks(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "database",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}
	result.Items = append(result.Items, CheckItem{
		Label:  "database",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d cached workbook(s)", len(ids)),
	})

	expired, err := c.cache.CountExpired(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "expired snapshots",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	switch {
	case expired == 0:
		result.Items = append(result.Items, CheckItem{
			Label:  "expired snapshots",
			Status: StatusPass,
			Detail: "none",
		})
	case c.autofix:
		removed, err := c.cache.SweepExpired(ctx)
		if err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:   "expired snapshots",
				Status:  StatusFail,
				Detail:  fmt.Sprintf("sweep failed: %v", err),
				Fixable: true,
			})
			return result
		}
		result.Items = append(result.Items, CheckItem{
			Label:  "expired snapshots",
			Status: StatusPass,
			Detail: fmt.Sprintf("removed %d", removed),
		})
	default:
		result.Items = append(result.Items, CheckItem{
			Label:   "expired snapshots",
			Status:  StatusWarn,
			Detail:  fmt.Sprintf("%d awaiting sweep", expired),
			Fixable: true,
		})
	}

	return result
}
