package stores

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sheetmark/internal/core/sheet"
	"github.com/colonyops/sheetmark/internal/data/db"
)

func newTestSnapshotStore(t *testing.T) *SnapshotStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewSnapshotStore(database)
}

func testSnapshot(id string) sheet.Snapshot {
	return sheet.Snapshot{
		WorkbookID: id,
		SheetNames: []string{"Sheet1", "Totals"},
		SheetData: map[string][][]string{
			"Sheet1": {{"a", "b"}, {"1", "2"}},
			"Totals": {{"sum"}},
		},
	}
}

func TestSnapshotStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestSnapshotStore(t)

	require.NoError(t, store.Put(ctx, testSnapshot("wb1"), 0))

	got, err := store.Get(ctx, "wb1")
	require.NoError(t, err)
	assert.Equal(t, "wb1", got.WorkbookID)
	assert.Equal(t, []string{"Sheet1", "Totals"}, got.SheetNames)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, got.SheetData["Sheet1"])
	assert.Nil(t, got.ExpiresAt)
	assert.False(t, got.FetchedAt.IsZero())
}

func TestSnapshotStore_GetNotFound(t *testing.T) {
	store := newTestSnapshotStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, sheet.ErrSnapshotNotFound)
}

func TestSnapshotStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestSnapshotStore(t)

	require.NoError(t, store.Put(ctx, testSnapshot("wb1"), 0))

	updated := testSnapshot("wb1")
	updated.SheetNames = []string{"Only"}
	updated.SheetData = map[string][][]string{"Only": {{"x"}}}
	require.NoError(t, store.Put(ctx, updated, time.Hour))

	got, err := store.Get(ctx, "wb1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, got.SheetNames)
	require.NotNil(t, got.ExpiresAt)
}

func TestSnapshotStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := newTestSnapshotStore(t)

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Put(ctx, testSnapshot("wb1"), time.Minute))
	require.NoError(t, store.Put(ctx, testSnapshot("wb2"), 0))

	ids, err := store.ListWorkbooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"wb1", "wb2"}, ids)

	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	_, err = store.Get(ctx, "wb1")
	assert.ErrorIs(t, err, sheet.ErrSnapshotNotFound)

	ids, err = store.ListWorkbooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"wb2"}, ids)
}

func TestSnapshotStore_SweepExpired(t *testing.T) {
	ctx := context.Background()
	store := newTestSnapshotStore(t)

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Put(ctx, testSnapshot("short"), time.Second))
	require.NoError(t, store.Put(ctx, testSnapshot("long"), time.Hour))

	store.now = func() time.Time { return now.Add(time.Minute) }
	expired, err := store.CountExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	n, err := store.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	expired, err = store.CountExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, expired)

	_, err = store.Get(ctx, "long")
	require.NoError(t, err)
}

func TestSnapshotStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestSnapshotStore(t)

	require.NoError(t, store.Put(ctx, testSnapshot("wb1"), 0))
	require.NoError(t, store.Delete(ctx, "wb1"))
	require.NoError(t, store.Delete(ctx, "wb1"), "deleting a missing snapshot is not an error")

	_, err := store.Get(ctx, "wb1")
	assert.ErrorIs(t, err, sheet.ErrSnapshotNotFound)
}

func TestSnapshot_Grid(t *testing.T) {
	g := testSnapshot("wb1").Grid(sheet.Padding{MinRows: 3, MinCols: 3})

	assert.Equal(t, []string{"Sheet1", "Totals"}, g.SheetNames())
	rows, cols := g.Dims("Sheet1")
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
}

func TestRecoverFromCorruption(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)
	require.NoError(t, os.WriteFile(dbPath, []byte("not a database"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal"), 0o644))

	require.NoError(t, RecoverFromCorruption(dir))

	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dbPath + "-wal")
	assert.True(t, os.IsNotExist(err))

	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	_ = database.Close()
}

func TestRetryBusy_StopsOnOtherErrors(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := retryBusy(context.Background(), func() error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	calls = 0
	require.NoError(t, retryBusy(context.Background(), func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, IsNotFoundError(errors.New("boom")))
	assert.False(t, IsBusyError(errors.New("boom")))
	assert.True(t, IsCorruptionError(errors.New("file is not a database")))
}
