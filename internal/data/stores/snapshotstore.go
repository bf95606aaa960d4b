package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/sheetmark/internal/core/sheet"
	"github.com/colonyops/sheetmark/internal/data/db"
)

// SnapshotStore implements sheet.Cache using SQLite.
type SnapshotStore struct {
	db  *db.DB
	now func() time.Time
}

var _ sheet.Cache = (*SnapshotStore)(nil)

// NewSnapshotStore creates a new SQLite-backed snapshot cache.
func NewSnapshotStore(db *db.DB) *SnapshotStore {
	return &SnapshotStore{db: db, now: time.Now}
}

// Get returns the cached snapshot for a workbook.
// Expired entries are lazily deleted and reported as sheet.ErrSnapshotNotFound.
func (s *SnapshotStore) Get(ctx context.Context, workbookID string) (sheet.Snapshot, error) {
	var (
		names     []byte
		data      []byte
		fetchedAt int64
		expiresAt sql.NullInt64
	)
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT sheet_names, sheet_data, fetched_at, expires_at
		 FROM sheet_snapshots WHERE workbook_id = ?`, workbookID,
	).Scan(&names, &data, &fetchedAt, &expiresAt)
	if IsNotFoundError(err) {
		return sheet.Snapshot{}, sheet.ErrSnapshotNotFound
	}
	if err != nil {
		return sheet.Snapshot{}, fmt.Errorf("snapshot get %q: %w", workbookID, err)
	}

	if s.isExpired(expiresAt) {
		_ = s.Delete(ctx, workbookID)
		return sheet.Snapshot{}, sheet.ErrSnapshotNotFound
	}

	snap := sheet.Snapshot{
		WorkbookID: workbookID,
		FetchedAt:  time.Unix(0, fetchedAt),
	}
	if err := json.Unmarshal(names, &snap.SheetNames); err != nil {
		return sheet.Snapshot{}, fmt.Errorf("snapshot get %q unmarshal names: %w", workbookID, err)
	}
	if err := json.Unmarshal(data, &snap.SheetData); err != nil {
		return sheet.Snapshot{}, fmt.Errorf("snapshot get %q unmarshal data: %w", workbookID, err)
	}
	if expiresAt.Valid {
		t := time.Unix(0, expiresAt.Int64)
		snap.ExpiresAt = &t
	}

	return snap, nil
}

// Put stores a snapshot. A ttl of zero or less never expires.
func (s *SnapshotStore) Put(ctx context.Context, snap sheet.Snapshot, ttl time.Duration) error {
	names, err := json.Marshal(snap.SheetNames)
	if err != nil {
		return fmt.Errorf("snapshot put %q marshal names: %w", snap.WorkbookID, err)
	}
	data, err := json.Marshal(snap.SheetData)
	if err != nil {
		return fmt.Errorf("snapshot put %q marshal data: %w", snap.WorkbookID, err)
	}

	now := s.now()
	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = now
	}

	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: now.Add(ttl).UnixNano(), Valid: true}
	}

	err = retryBusy(ctx, func() error {
		_, err := s.db.Conn().ExecContext(ctx,
			`INSERT INTO sheet_snapshots (workbook_id, sheet_names, sheet_data, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (workbook_id) DO UPDATE SET
		   sheet_names = excluded.sheet_names,
		   sheet_data  = excluded.sheet_data,
		   fetched_at  = excluded.fetched_at,
		   expires_at  = excluded.expires_at`,
			snap.WorkbookID, string(names), data, fetchedAt.UnixNano(), expiresAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("snapshot put %q: %w", snap.WorkbookID, err)
	}
	return nil
}

// Delete removes a workbook's snapshot.
func (s *SnapshotStore) Delete(ctx context.Context, workbookID string) error {
	if _, err := s.db.Conn().ExecContext(ctx,
		"DELETE FROM sheet_snapshots WHERE workbook_id = ?", workbookID,
	); err != nil {
		return fmt.Errorf("snapshot delete %q: %w", workbookID, err)
	}
	return nil
}

// ListWorkbooks returns the ids of all non-expired snapshots in sorted order.
func (s *SnapshotStore) ListWorkbooks(ctx context.Context) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT workbook_id FROM sheet_snapshots
		 WHERE expires_at IS NULL OR expires_at >= ?
		 ORDER BY workbook_id`, s.now().UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("snapshot list scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SweepExpired deletes all snapshots whose TTL has passed and returns how
// many were removed.
func (s *SnapshotStore) SweepExpired(ctx context.Context) (int64, error) {
	var n int64
	err := retryBusy(ctx, func() error {
		res, err := s.db.Conn().ExecContext(ctx,
			"DELETE FROM sheet_snapshots WHERE expires_at IS NOT NULL AND expires_at < ?",
			s.now().UnixNano(),
		)
		if err != nil {
			return err
		}
		n, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("snapshot sweep expired: %w", err)
	}
	return n, nil
}

func (s *SnapshotStore) isExpired(expiresAt sql.NullInt64) bool {
	return expiresAt.Valid && expiresAt.Int64 < s.now().UnixNano()
}

// CountExpired returns how many snapshots have passed their TTL but have
// not been swept yet.
func (s *SnapshotStore) CountExpired(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.Conn().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sheet_snapshots WHERE expires_at IS NOT NULL AND expires_at < ?",
		s.now().UnixNano(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("snapshot count expired: %w", err)
	}
	return n, nil
}
