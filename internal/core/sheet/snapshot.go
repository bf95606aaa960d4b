package sheet

import (
	"context"
	"errors"
	"time"
)

// ErrSnapshotNotFound is returned by a Cache when no live snapshot exists.
var ErrSnapshotNotFound = errors.New("sheet snapshot not found")

// Snapshot is the raw cell data of a workbook as last fetched.
type Snapshot struct {
	WorkbookID string
	SheetNames []string
	SheetData  map[string][][]string
	FetchedAt  time.Time
	ExpiresAt  *time.Time
}

// Grid builds a padded grid from the snapshot.
func (s Snapshot) Grid(pad Padding) *Grid {
	return New(s.SheetNames, s.SheetData, pad)
}

// Cache persists snapshots between runs. Expired snapshots behave as missing.
type Cache interface {
	Get(ctx context.Context, workbookID string) (Snapshot, error)
	Put(ctx context.Context, snap Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, workbookID string) error
}
