package sink

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

const createIndexTable = `CREATE TABLE IF NOT EXISTS current_index (
	archiveID int,
	urlID int,
	succeed int,
	FOREIGN KEY(archiveID) REFERENCES collection_name(archiveID)
)`

// SQLite rebuilds the current_index table for each run: the table is created
// if absent, cleared entirely, then filled one row per processed record. This
// is a destructive full replace, not an incremental update. The handle is
// owned by the caller.
type SQLite struct {
	db *sqlx.DB
}

// NewSQLite prepares the index table, wiping any rows from prior runs.
func NewSQLite(ctx context.Context, db *sqlx.DB) (*SQLite, error) {
	if _, err := db.ExecContext(ctx, createIndexTable); err != nil {
		return nil, fmt.Errorf("create current_index: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM current_index`); err != nil {
		return nil, fmt.Errorf("clear current_index: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Write inserts one result row.
func (s *SQLite) Write(ctx context.Context, record snapshot.ResultRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO current_index (archiveID, urlID, succeed) VALUES (?, ?, ?)`,
		record.ArchiveID, record.URLID, int(record.Status),
	)
	if err != nil {
		return fmt.Errorf("insert current_index row: %w", err)
	}
	return nil
}

// Close is a no-op: the database handle outlives the sink and is closed by
// the application container.
func (s *SQLite) Close() error {
	return nil
}
