// Package source loads workbook cell data from the evidence service, a local
// xlsx file, or the snapshot cache in front of either.
package source

import (
	"context"
	"fmt"

	"github.com/colonyops/sheetmark/internal/core/sheet"
)

// Source produces the raw cell data of one workbook.
type Source interface {
	Snapshot(ctx context.Context) (sheet.Snapshot, error)
}

// Load fetches a snapshot from src and pads it into a grid.
func Load(ctx context.Context, src Source, pad sheet.Padding) (*sheet.Grid, error) {
	snap, err := src.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sheet data: %w", err)
	}
	return snap.Grid(pad), nil
}
