package source

import (
	"context"
	"time"

	"github.com/colonyops/sheetmark/internal/core/sheet"
	"github.com/colonyops/sheetmark/internal/evidence"
)

// SheetFetcher is the part of the evidence client a Remote source needs.
type SheetFetcher interface {
	SheetData(ctx context.Context, workbookID string) (evidence.SheetData, error)
}

// Remote reads sheet data from the evidence service.
type Remote struct {
	client     SheetFetcher
	workbookID string
}

func NewRemote(client SheetFetcher, workbookID string) *Remote {
	return &Remote{client: client, workbookID: workbookID}
}

func (r *Remote) Snapshot(ctx context.Context) (sheet.Snapshot, error) {
	data, err := r.client.SheetData(ctx, r.workbookID)
	if err != nil {
		return sheet.Snapshot{}, err
	}
	return sheet.Snapshot{
		WorkbookID: r.workbookID,
		SheetNames: data.SheetNames,
		SheetData:  data.Strings(),
		FetchedAt:  time.Now(),
	}, nil
}
