package sheetmark

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/config"
	"github.com/colonyops/sheetmark/internal/core/logging"
	"github.com/colonyops/sheetmark/internal/core/sheet"
	"github.com/colonyops/sheetmark/internal/source"
)

// OpenOptions selects a workbook and where its cells come from.
type OpenOptions struct {
	WorkbookID string // evidence service workbook id
	File       string // local xlsx file; read instead of the service's sheet data
	Refresh    bool   // bypass the snapshot cache
}

// Workbook is an opened workbook: its padded grid and the annotation store
// bound to it. The grid is immutable once loaded.
type Workbook struct {
	ID     string
	Grid   *sheet.Grid
	Store  *annotation.Store
	Source source.Source
	Local  bool
}

// WorkbookService opens workbooks from the evidence service or local files.
type WorkbookService struct {
	config    *config.Config
	api       annotation.API
	docs      annotation.DocumentLibrary
	fetcher   source.SheetFetcher
	snapshots sheet.Cache
	log       zerolog.Logger
}

// NewWorkbookService creates a WorkbookService. client may be nil when no
// evidence service is configured; snapshots may be nil when caching is off.
func NewWorkbookService(cfg *config.Config, client EvidenceClient, snapshots sheet.Cache, logger zerolog.Logger) *WorkbookService {
	s := &WorkbookService{
		config:    cfg,
		api:       offlineAPI{},
		snapshots: snapshots,
		log:       logger,
	}
	if client != nil {
		s.api = client
		s.docs = client
		s.fetcher = client
	}
	return s
}

// Online reports whether an evidence service is available.
func (s *WorkbookService) Online() bool {
	return s.fetcher != nil
}

// Open loads a workbook's grid and annotations.
func (s *WorkbookService) Open(ctx context.Context, opts OpenOptions) (*Workbook, error) {
	src, id, err := s.resolveSource(opts)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithWorkbookID(ctx, id)

	grid, err := source.Load(ctx, src, s.padding())
	if err != nil {
		return nil, err
	}
	s.log.Debug().Ctx(ctx).Strs("sheets", grid.SheetNames()).Msg("workbook grid loaded")

	// A local file without a workbook id has nothing to annotate against.
	store := s.newStore(id, opts.File != "" && opts.WorkbookID == "")
	store.RestrictSheets(grid.SheetNames())
	if _, err := store.Load(ctx); err != nil {
		return nil, err
	}

	mappings, references := store.Counts()
	s.log.Info().Ctx(ctx).Int("mappings", mappings).Int("references", references).Msg("workbook opened")

	return &Workbook{
		ID:     id,
		Grid:   grid,
		Store:  store,
		Source: src,
		Local:  opts.File != "",
	}, nil
}

// Annotations opens only the annotation store of a workbook, skipping the
// sheet data. Used by commands that never render the grid.
func (s *WorkbookService) Annotations(ctx context.Context, workbookID string) (*annotation.Store, error) {
	if workbookID == "" {
		return nil, errors.New("workbook id is required")
	}
	if !s.Online() {
		return nil, ErrNoService
	}

	store := s.newStore(workbookID, false)
	if _, err := store.Load(logging.WithWorkbookID(ctx, workbookID)); err != nil {
		return nil, err
	}
	return store, nil
}

// SheetNames lists the sheets of a workbook. The snapshot cache answers when
// it holds a live entry.
func (s *WorkbookService) SheetNames(ctx context.Context, opts OpenOptions) ([]string, error) {
	src, id, err := s.resolveSource(opts)
	if err != nil {
		return nil, err
	}
	snap, err := src.Snapshot(logging.WithWorkbookID(ctx, id))
	if err != nil {
		return nil, fmt.Errorf("load sheet names: %w", err)
	}
	return snap.SheetNames, nil
}

// Forget drops a workbook's cached snapshot.
func (s *WorkbookService) Forget(ctx context.Context, workbookID string) error {
	if s.snapshots == nil {
		return nil
	}
	return s.snapshots.Delete(ctx, workbookID)
}

func (s *WorkbookService) resolveSource(opts OpenOptions) (source.Source, string, error) {
	if opts.File != "" {
		id := opts.WorkbookID
		if id == "" {
			id = LocalWorkbookID(opts.File)
		}
		return source.NewXLSX(opts.File, id), id, nil
	}

	if opts.WorkbookID == "" {
		return nil, "", errors.New("either a workbook id or an xlsx file is required")
	}
	if !s.Online() {
		return nil, "", fmt.Errorf("open workbook %s: %w", opts.WorkbookID, ErrNoService)
	}

	var src source.Source = source.NewRemote(s.fetcher, opts.WorkbookID)
	if s.snapshots != nil {
		src = source.NewCached(src, s.snapshots, opts.WorkbookID, source.CachedOptions{
			TTL:     s.config.Cache.TTL,
			Refresh: opts.Refresh,
		}, s.log)
	}
	return src, opts.WorkbookID, nil
}

func (s *WorkbookService) newStore(workbookID string, offline bool) *annotation.Store {
	api := s.api
	if offline {
		api = offlineAPI{}
	}
	return annotation.NewStore(api, workbookID, s.log, annotation.Options{
		Docs:             s.docs,
		FolderID:         s.config.API.FolderID,
		ClassificationID: s.config.API.ClassificationID,
		MappingColor:     s.config.Colors.MappingDefault,
	})
}

func (s *WorkbookService) padding() sheet.Padding {
	return sheet.Padding{MinRows: s.config.Grid.MinRows, MinCols: s.config.Grid.MinCols}
}

// LocalWorkbookID derives a workbook id from a local file name.
func LocalWorkbookID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
