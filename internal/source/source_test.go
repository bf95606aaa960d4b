package source

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/internal/core/sheet"
	"github.com/colonyops/sheetmark/internal/evidence"
)

type fakeFetcher struct {
	data evidence.SheetData
	err  error
	ids  []string
}

func (f *fakeFetcher) SheetData(_ context.Context, id string) (evidence.SheetData, error) {
	f.ids = append(f.ids, id)
	return f.data, f.err
}

type countingSource struct {
	snap  sheet.Snapshot
	err   error
	calls int
}

func (s *countingSource) Snapshot(context.Context) (sheet.Snapshot, error) {
	s.calls++
	return s.snap, s.err
}

type memCache struct {
	items  map[string]sheet.Snapshot
	getErr error
	putErr error
	ttls   []time.Duration
}

func newMemCache() *memCache { return &memCache{items: map[string]sheet.Snapshot{}} }

func (m *memCache) Get(_ context.Context, id string) (sheet.Snapshot, error) {
	if m.getErr != nil {
		return sheet.Snapshot{}, m.getErr
	}
	snap, ok := m.items[id]
	if !ok {
		return sheet.Snapshot{}, sheet.ErrSnapshotNotFound
	}
	return snap, nil
}

func (m *memCache) Put(_ context.Context, snap sheet.Snapshot, ttl time.Duration) error {
	m.ttls = append(m.ttls, ttl)
	if m.putErr != nil {
		return m.putErr
	}
	m.items[snap.WorkbookID] = snap
	return nil
}

func (m *memCache) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func TestRemote_Snapshot(t *testing.T) {
	f := &fakeFetcher{data: evidence.SheetData{
		SheetNames: []string{"S"},
		SheetData:  map[string][][]evidence.CellValue{"S": {{"a", "b"}}},
	}}

	snap, err := NewRemote(f, "wb").Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"wb"}, f.ids)
	assert.Equal(t, "wb", snap.WorkbookID)
	assert.Equal(t, [][]string{{"a", "b"}}, snap.SheetData["S"])
}

func TestRemote_Error(t *testing.T) {
	f := &fakeFetcher{err: errors.New("offline")}

	_, err := Load(context.Background(), NewRemote(f, "wb"), sheet.DefaultPadding())
	require.ErrorContains(t, err, "offline")
}

func TestXLSX_Snapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 42))
	_, err := f.NewSheet("Controls")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Controls", "C3", "AC-1"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	grid, err := Load(context.Background(), NewXLSX(path, "local"), sheet.Padding{MinRows: 5, MinCols: 5})
	require.NoError(t, err)

	assert.Equal(t, []string{"Sheet1", "Controls"}, grid.SheetNames())

	v, ok := grid.Value("Sheet1", cellref.Cell{Row: 1, Col: 1})
	require.True(t, ok)
	assert.Equal(t, "42", v)

	v, ok = grid.Value("Controls", cellref.Cell{Row: 2, Col: 2})
	require.True(t, ok)
	assert.Equal(t, "AC-1", v)

	rows, cols := grid.Dims("Controls")
	assert.Equal(t, 5, rows)
	assert.Equal(t, 5, cols)
}

func TestXLSX_MissingFile(t *testing.T) {
	_, err := NewXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), "x").Snapshot(context.Background())
	require.Error(t, err)

	_, err = NewXLSX("", "x").Snapshot(context.Background())
	require.Error(t, err)
}

func TestCached_MissThenHit(t *testing.T) {
	inner := &countingSource{snap: sheet.Snapshot{SheetNames: []string{"S"}}}
	cache := newMemCache()
	c := NewCached(inner, cache, "wb", CachedOptions{TTL: time.Hour}, zerolog.Nop())

	snap, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wb", snap.WorkbookID)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, []time.Duration{time.Hour}, cache.ttls)

	_, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "second load should be served from cache")
}

func TestCached_Refresh(t *testing.T) {
	inner := &countingSource{}
	cache := newMemCache()
	cache.items["wb"] = sheet.Snapshot{WorkbookID: "wb"}

	c := NewCached(inner, cache, "wb", CachedOptions{Refresh: true}, zerolog.Nop())
	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestCached_CacheFailuresAreNotFatal(t *testing.T) {
	inner := &countingSource{snap: sheet.Snapshot{SheetNames: []string{"S"}}}
	cache := newMemCache()
	cache.getErr = errors.New("disk on fire")
	cache.putErr = errors.New("disk on fire")

	c := NewCached(inner, cache, "wb", CachedOptions{}, zerolog.Nop())
	snap, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"S"}, snap.SheetNames)
}

func TestCached_SourceError(t *testing.T) {
	inner := &countingSource{err: errors.New("offline")}
	cache := newMemCache()

	c := NewCached(inner, cache, "wb", CachedOptions{}, zerolog.Nop())
	_, err := c.Snapshot(context.Background())
	require.Error(t, err)
	assert.Empty(t, cache.items)
}

func TestCached_Invalidate(t *testing.T) {
	inner := &countingSource{}
	cache := newMemCache()
	c := NewCached(inner, cache, "wb", CachedOptions{}, zerolog.Nop())

	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(context.Background()))

	_, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
