// Package sheetmark wires configuration, storage and the evidence client
// into the services that commands and the TUI consume.
package sheetmark

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/config"
	"github.com/colonyops/sheetmark/internal/core/sheet"
	"github.com/colonyops/sheetmark/internal/data/db"
	"github.com/colonyops/sheetmark/internal/data/stores"
	"github.com/colonyops/sheetmark/internal/evidence"
	"github.com/colonyops/sheetmark/internal/source"
)

// EvidenceClient is everything sheetmark needs from the evidence service.
type EvidenceClient interface {
	annotation.API
	annotation.DocumentLibrary
	source.SheetFetcher
	Ping(ctx context.Context) error
}

var _ EvidenceClient = (*evidence.Client)(nil)

// App is the central entry point for all sheetmark operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Workbooks *WorkbookService
	Doctor    *DoctorService

	Config    *config.Config
	DB        *db.DB
	Snapshots *stores.SnapshotStore // nil when the cache is disabled
	Client    EvidenceClient        // nil when no service is configured
}

// NewApp constructs an App from explicit dependencies. database and client
// may be nil.
func NewApp(cfg *config.Config, database *db.DB, client EvidenceClient, logger zerolog.Logger) *App {
	var snapshots *stores.SnapshotStore
	if database != nil && !cfg.Cache.Disabled {
		snapshots = stores.NewSnapshotStore(database)
	}

	app := &App{
		Config:    cfg,
		DB:        database,
		Snapshots: snapshots,
		Client:    client,
	}

	// Typed nils must not leak into interface fields.
	var cache sheet.Cache
	if snapshots != nil {
		cache = snapshots
	}
	app.Workbooks = NewWorkbookService(cfg, client, cache, logger)
	app.Doctor = NewDoctorService(cfg, snapshots, client)
	return app
}

// NewClient builds the evidence client from config, or returns nil when no
// service is configured.
func NewClient(cfg *config.Config, logger zerolog.Logger) (EvidenceClient, error) {
	if !cfg.HasAPI() {
		return nil, nil
	}
	client, err := evidence.New(evidence.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}
