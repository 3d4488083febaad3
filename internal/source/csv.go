// Package source yields ordered URL records from a CSV file or a SQLite
// database.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

// CSV reads URL records from a CSV file. The first row is a header and is
// skipped; every data row must carry archive_id, url_id, and url in its first
// three columns.
type CSV struct {
	path string
}

// NewCSV returns a source reading from path.
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

// Read loads the whole file into memory, preserving row order.
func (s *CSV) Read(ctx context.Context) ([]snapshot.URLRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context canceled: %w", err)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv source %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv source %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]snapshot.URLRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 3 {
			return nil, fmt.Errorf("csv row %d: want at least 3 columns, got %d", i+2, len(row))
		}
		archiveID, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: parse archive_id: %w", i+2, err)
		}
		urlID, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: parse url_id: %w", i+2, err)
		}
		records = append(records, snapshot.URLRecord{
			ArchiveID: archiveID,
			URLID:     urlID,
			URL:       row[2],
		})
	}
	return records, nil
}
