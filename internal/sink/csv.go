// Package sink persists per-URL results to a CSV index and/or a SQLite index
// table.
package sink

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

// csvHeader matches the legacy index layout; every field is quoted.
var csvHeader = []string{"archive_id", "url_id", "succeed_code", "current_url"}

// CSV appends one quoted row per result to a freshly truncated index file.
type CSV struct {
	file   *os.File
	writer *bufio.Writer
}

// NewCSV creates (or truncates) the index file at path and writes the header.
func NewCSV(path string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv index %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := writeQuotedRow(w, csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	return &CSV{file: f, writer: w}, nil
}

// Write appends one result row in input order.
func (s *CSV) Write(ctx context.Context, record snapshot.ResultRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	row := []string{
		strconv.FormatInt(record.ArchiveID, 10),
		strconv.FormatInt(record.URLID, 10),
		strconv.Itoa(int(record.Status)),
		record.URL,
	}
	if err := writeQuotedRow(s.writer, row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (s *CSV) Close() error {
	if err := s.writer.Flush(); err != nil {
		s.file.Close()
		return fmt.Errorf("flush csv index: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close csv index: %w", err)
	}
	return nil
}

// writeQuotedRow emits a comma-delimited row with every field quoted, which
// encoding/csv will not do (it only quotes when required).
func writeQuotedRow(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		quoted := `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		if _, err := w.WriteString(quoted); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}
