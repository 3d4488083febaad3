package source

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

// SQLite reads URL records from the current_url table. The handle is owned by
// the caller, which opens it once per run and closes it afterwards.
type SQLite struct {
	db *sqlx.DB
}

// NewSQLite returns a source reading from db.
func NewSQLite(db *sqlx.DB) *SQLite {
	return &SQLite{db: db}
}

// Read fetches the full table in one snapshot query; no streaming, no
// pagination.
func (s *SQLite) Read(ctx context.Context) ([]snapshot.URLRecord, error) {
	var records []snapshot.URLRecord
	query := `SELECT archiveID, urlID, url FROM current_url`
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("select current_url: %w", err)
	}
	return records, nil
}
