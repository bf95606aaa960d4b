package annotation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/sheetmark/internal/core/cellref"
)

// Snapshot is the loaded state of both annotation lists.
type Snapshot struct {
	Mappings   []RangeEvidence
	References []RangeEvidence
}

// Options configures a Store.
type Options struct {
	Docs             DocumentLibrary
	FolderID         string
	ClassificationID string
	MappingColor     string // default color for uncolored mappings
}

// Store keeps the mapping and reference lists of one workbook consistent with
// the server. Mutations never patch local state optimistically: they wait for
// the server, then reload the authoritative lists. It is safe for concurrent
// use; reads happen on the UI goroutine while mutations run in commands.
type Store struct {
	api        API
	workbookID string
	log        zerolog.Logger
	opts       Options

	mu         sync.RWMutex
	mappings   []RangeEvidence
	references []RangeEvidence
	sheets     []string // nil accepts any sheet
	issued     uint64
	applied    uint64
}

func NewStore(api API, workbookID string, logger zerolog.Logger, opts Options) *Store {
	if opts.MappingColor == "" {
		opts.MappingColor = DefaultMappingColor
	}
	return &Store{
		api:        api,
		workbookID: workbookID,
		log:        logger,
		opts:       opts,
	}
}

// WorkbookID returns the workbook the store is bound to.
func (s *Store) WorkbookID() string { return s.workbookID }

// RestrictSheets limits Create to the given sheet names. A nil slice lifts
// the restriction.
func (s *Store) RestrictSheets(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if names == nil {
		s.sheets = nil
		return
	}
	s.sheets = slices.Clone(names)
}

// HasSheet reports whether Create accepts annotations on the sheet.
func (s *Store) HasSheet(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheets == nil || slices.Contains(s.sheets, name)
}

func (s *Store) checkSheet(name string) error {
	if s.HasSheet(name) {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Errorf("%w: unknown sheet %q (sheets: %s)", ErrValidation, name, strings.Join(s.sheets, ", "))
}

// Load fetches both lists. A response is applied only if no newer load has
// already been applied, so a slow stale refetch cannot overwrite fresh data.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	mappings, err := s.api.ListMappings(ctx, s.workbookID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load mappings: %w", err)
	}
	references, err := s.api.ListReferences(ctx, s.workbookID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load references: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen > s.applied {
		s.applied = gen
		s.mappings = mappings
		s.references = references
	} else {
		s.log.Debug().Uint64("generation", gen).Msg("dropping stale annotation load")
	}

	return Snapshot{
		Mappings:   slices.Clone(s.mappings),
		References: slices.Clone(s.references),
	}, nil
}

// Mappings returns a copy of the mapping list.
func (s *Store) Mappings() []RangeEvidence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.mappings)
}

// References returns a copy of the reference list.
func (s *Store) References() []RangeEvidence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.references)
}

// Lookup returns the annotation with the given id.
func (s *Store) Lookup(id string) (RangeEvidence, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range [][]RangeEvidence{s.mappings, s.references} {
		for _, ev := range list {
			if ev.ID == id {
				return ev, true
			}
		}
	}
	return RangeEvidence{}, false
}

// FindCovering returns the annotation of the given kind covering cell on
// sheet, or nil. When several overlap, the most recently created wins; ties
// go to the later list entry.
func (s *Store) FindCovering(kind Kind, sheet string, cell cellref.Cell) *RangeEvidence {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.list(kind)
	var found *RangeEvidence
	for i := range list {
		ev := &list[i]
		if ev.Sheet != sheet || !ev.Range().Contains(cell) {
			continue
		}
		if found == nil || !ev.CreatedAt.Before(found.CreatedAt) {
			found = ev
		}
	}
	if found == nil {
		return nil
	}
	out := *found
	return &out
}

// Overlapping returns annotations of kind on sheet that intersect r.
func (s *Store) Overlapping(kind Kind, sheet string, r cellref.Range) []RangeEvidence {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RangeEvidence
	for _, ev := range s.list(kind) {
		if ev.Sheet == sheet && ev.Range().Overlaps(r) {
			out = append(out, ev)
		}
	}
	return out
}

// Counts returns the number of mappings and references.
func (s *Store) Counts() (mappings, references int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mappings), len(s.references)
}

// list must be called with mu held.
func (s *Store) list(kind Kind) []RangeEvidence {
	if kind == KindReference {
		return s.references
	}
	return s.mappings
}

// CreateInput describes a new annotation. Range is nil when nothing is
// selected, which fails validation.
type CreateInput struct {
	Kind  Kind
	Sheet string
	Range *cellref.Range
	Color string
	Notes string
}

// Create posts a new annotation for the store's workbook and reloads.
func (s *Store) Create(ctx context.Context, in CreateInput) (RangeEvidence, error) {
	if in.Range == nil {
		return RangeEvidence{}, fmt.Errorf("%w: no active selection", ErrValidation)
	}
	if !in.Kind.Valid() {
		return RangeEvidence{}, fmt.Errorf("%w: unknown kind %q", ErrValidation, in.Kind)
	}
	if in.Sheet == "" {
		return RangeEvidence{}, fmt.Errorf("%w: sheet is required", ErrValidation)
	}
	if err := s.checkSheet(in.Sheet); err != nil {
		return RangeEvidence{}, err
	}
	if err := in.Range.Validate(); err != nil {
		return RangeEvidence{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if overlaps := s.Overlapping(in.Kind, in.Sheet, *in.Range); len(overlaps) > 0 {
		s.log.Warn().
			Str("kind", string(in.Kind)).
			Str("range", cellref.FormatAddress(in.Sheet, *in.Range)).
			Int("overlaps", len(overlaps)).
			Msg("new annotation overlaps existing ones; newest wins on lookup")
	}

	req := CreateRequest{
		Type:     in.Kind,
		Sheet:    in.Sheet,
		StartRow: in.Range.MinRow,
		StartCol: in.Range.MinCol,
		EndRow:   in.Range.MaxRow,
		EndCol:   in.Range.MaxCol,
	}
	if in.Color != "" {
		req.Color = &in.Color
	}
	if in.Notes != "" {
		req.Notes = &in.Notes
	}

	created, err := s.api.CreateRangeEvidence(ctx, s.workbookID, req)
	if err != nil {
		return RangeEvidence{}, fmt.Errorf("create %s: %w", in.Kind, err)
	}
	if created.LinkedEvidenceFiles == nil {
		created.LinkedEvidenceFiles = []EvidenceFileRef{}
	}

	s.log.Info().
		Str("id", created.ID).
		Str("kind", string(created.Type)).
		Str("range", created.Address()).
		Msg("annotation created")

	if _, err := s.Load(ctx); err != nil {
		s.log.Warn().Err(err).Msg("reload after create failed; keeping created record locally")
		s.mu.Lock()
		if in.Kind == KindReference {
			s.references = append(s.references, created)
		} else {
			s.mappings = append(s.mappings, created)
		}
		s.mu.Unlock()
	}

	return created, nil
}

// Update changes color and/or notes of an existing annotation and reloads.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (RangeEvidence, error) {
	if _, ok := s.Lookup(id); !ok {
		return RangeEvidence{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	if patch.Empty() {
		return RangeEvidence{}, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	updated, err := s.api.UpdateRangeEvidence(ctx, s.workbookID, id, patch)
	if err != nil {
		return RangeEvidence{}, fmt.Errorf("update %s: %w", id, err)
	}

	if _, err := s.Load(ctx); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("reload after update failed")
	}
	return updated, nil
}

// Remove deletes an annotation, drops it locally and reloads.
func (s *Store) Remove(ctx context.Context, id string) error {
	if _, ok := s.Lookup(id); !ok {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}

	if err := s.api.DeleteRangeEvidence(ctx, s.workbookID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			_, _ = s.Load(ctx)
		}
		return fmt.Errorf("remove %s: %w", id, err)
	}

	s.mu.Lock()
	// loads issued before the delete completed must not resurrect the record
	s.applied = s.issued
	s.mappings = slices.DeleteFunc(s.mappings, func(ev RangeEvidence) bool { return ev.ID == id })
	s.references = slices.DeleteFunc(s.references, func(ev RangeEvidence) bool { return ev.ID == id })
	s.mu.Unlock()

	s.log.Info().Str("id", id).Msg("annotation removed")

	if _, err := s.Load(ctx); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("reload after remove failed")
	}
	return nil
}

// Get fetches a single annotation with its linked files populated.
func (s *Store) Get(ctx context.Context, id string) (RangeEvidence, error) {
	ev, err := s.api.GetRangeEvidence(ctx, s.workbookID, id)
	if err != nil {
		return RangeEvidence{}, fmt.Errorf("get %s: %w", id, err)
	}
	if ev.LinkedEvidenceFiles == nil {
		ev.LinkedEvidenceFiles = []EvidenceFileRef{}
	}
	return ev, nil
}

// AttachFiles links already-created evidence records to a reference.
func (s *Store) AttachFiles(ctx context.Context, referenceID string, evidenceIDs []string) error {
	ev, ok := s.Lookup(referenceID)
	if !ok {
		return fmt.Errorf("attach to %s: %w", referenceID, ErrNotFound)
	}
	if ev.Type != KindReference {
		return fmt.Errorf("%w: files can only be attached to references, %s is a %s", ErrValidation, referenceID, ev.Type)
	}
	if len(evidenceIDs) == 0 {
		return nil
	}

	if err := s.api.AttachEvidence(ctx, s.workbookID, referenceID, evidenceIDs); err != nil {
		return fmt.Errorf("attach to %s: %w", referenceID, err)
	}

	if _, err := s.Load(ctx); err != nil {
		s.log.Warn().Err(err).Str("id", referenceID).Msg("reload after attach failed")
	}
	return nil
}
