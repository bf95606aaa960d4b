package sheetmark

import (
	"context"

	"github.com/colonyops/sheetmark/internal/core/config"
	"github.com/colonyops/sheetmark/internal/core/doctor"
	"github.com/colonyops/sheetmark/internal/data/stores"
)

// DoctorService runs health checks on the sheetmark setup.
type DoctorService struct {
	config    *config.Config
	snapshots *stores.SnapshotStore
	client    EvidenceClient
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(cfg *config.Config, snapshots *stores.SnapshotStore, client EvidenceClient) *DoctorService {
	return &DoctorService{
		config:    cfg,
		snapshots: snapshots,
		client:    client,
	}
}

// RunChecks executes all doctor checks and returns results.
func (d *DoctorService) RunChecks(ctx context.Context, configPath string, autofix bool) []doctor.Result {
	var sweeper doctor.SnapshotSweeper
	if d.snapshots != nil {
		sweeper = d.snapshots
	}
	var pinger doctor.Pinger
	if d.client != nil {
		pinger = d.client
	}

	checks := []doctor.Check{
		doctor.NewConfigCheck(d.config, configPath),
		doctor.NewCacheCheck(sweeper, autofix),
		doctor.NewAPICheck(d.config.API.BaseURL, pinger),
	}
	return doctor.RunAll(ctx, checks)
}
