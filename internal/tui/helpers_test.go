package tui

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/config"
	"github.com/colonyops/sheetmark/internal/core/sheet"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/pkg/tuitest"
)

// fakeAPI is an in-memory evidence service.
type fakeAPI struct {
	mu      sync.Mutex
	records []annotation.RangeEvidence
	next    int
}

var _ annotation.API = (*fakeAPI)(nil)

func (f *fakeAPI) list(kind annotation.Kind) []annotation.RangeEvidence {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []annotation.RangeEvidence
	for _, r := range f.records {
		if r.Type == kind {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeAPI) ListMappings(context.Context, string) ([]annotation.RangeEvidence, error) {
	return f.list(annotation.KindMapping), nil
}

func (f *fakeAPI) ListReferences(context.Context, string) ([]annotation.RangeEvidence, error) {
	return f.list(annotation.KindReference), nil
}

func (f *fakeAPI) CreateRangeEvidence(_ context.Context, wb string, req annotation.CreateRequest) (annotation.RangeEvidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	ev := annotation.RangeEvidence{
		ID: fmt.Sprintf("new-%d", f.next), WorkbookID: wb, Type: req.Type, Sheet: req.Sheet,
		StartRow: req.StartRow, StartCol: req.StartCol, EndRow: req.EndRow, EndCol: req.EndCol,
		Color: req.Color, Notes: req.Notes, CreatedAt: time.Now(),
	}
	f.records = append(f.records, ev)
	return ev, nil
}

func (f *fakeAPI) UpdateRangeEvidence(_ context.Context, _ string, id string, patch annotation.Patch) (annotation.RangeEvidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			if patch.Color != nil {
				f.records[i].Color = patch.Color
			}
			if patch.Notes != nil {
				f.records[i].Notes = patch.Notes
			}
			return f.records[i], nil
		}
	}
	return annotation.RangeEvidence{}, annotation.ErrNotFound
}

func (f *fakeAPI) DeleteRangeEvidence(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.records)
	f.records = slices.DeleteFunc(f.records, func(r annotation.RangeEvidence) bool { return r.ID == id })
	if len(f.records) == n {
		return annotation.ErrNotFound
	}
	return nil
}

func (f *fakeAPI) GetRangeEvidence(_ context.Context, _ string, id string) (annotation.RangeEvidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return annotation.RangeEvidence{}, annotation.ErrNotFound
}

func (f *fakeAPI) AttachEvidence(context.Context, string, string, []string) error { return nil }

func strPtr(s string) *string { return &s }

// B2:C3 on Controls is mapped; D5 is a reference.
func seedRecords() []annotation.RangeEvidence {
	return []annotation.RangeEvidence{
		{ID: "m1", Type: annotation.KindMapping, Sheet: "Controls", StartRow: 1, StartCol: 1, EndRow: 2, EndCol: 2, Color: strPtr("#FF8A65"), Notes: strPtr("access review")},
		{ID: "r1", Type: annotation.KindReference, Sheet: "Controls", StartRow: 4, StartCol: 3, EndRow: 4, EndCol: 3},
	}
}

func testWorkbook(t *testing.T, api annotation.API) *sheetmark.Workbook {
	t.Helper()
	store := annotation.NewStore(api, "wb-1", zerolog.Nop(), annotation.Options{})
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	grid := sheet.New([]string{"Controls", "Evidence"}, map[string][][]string{
		"Controls": {{"id", "owner", "score"}, {"AC-1", "ops", "42"}, {"AC-2", "sec", "7"}},
		"Evidence": {{"file"}},
	}, sheet.Padding{MinRows: 60, MinCols: 12})

	return &sheetmark.Workbook{ID: "wb-1", Grid: grid, Store: store}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Grid.ColumnWidth = 8
	return &cfg
}

// newTestModel returns an 80x24 viewer. With a 4 wide gutter and 8 wide
// columns, cell (r, c) is drawn at x = 4+8c, y = 2+r and 20 rows are visible.
func newTestModel(t *testing.T) (*Model, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{records: seedRecords()}
	m := New(testConfig(), testWorkbook(t, api), Options{})
	m.Update(tuitest.WindowSize(80, 24))
	return m, api
}

func cellXY(row, col int) (int, int) {
	return 4 + col*8 + 1, 2 + row
}

// setField replaces the text of a dialog form field.
func setField(t *testing.T, d *dialog, name, value string) {
	t.Helper()
	require.NotNil(t, d.form)
	f, ok := d.form.Field(name)
	require.True(t, ok, "no field %q", name)
	setter, ok := f.(interface{ SetValue(string) })
	require.True(t, ok, "field %q is not editable", name)
	setter.SetValue(value)
}

func send(m *Model, msgs ...any) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}
