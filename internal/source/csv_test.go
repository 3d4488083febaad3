package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVReadSkipsHeaderAndPreservesOrder(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, `archive_id,url_id,url
1,10,http://example.com
1,11,http://example.org
2,20,http://example.net
`)

	records, err := NewCSV(path).Read(context.Background())
	require.NoError(t, err)

	want := []snapshot.URLRecord{
		{ArchiveID: 1, URLID: 10, URL: "http://example.com"},
		{ArchiveID: 1, URLID: 11, URL: "http://example.org"},
		{ArchiveID: 2, URLID: 20, URL: "http://example.net"},
	}
	assert.Equal(t, want, records)
}

func TestCSVReadToleratesExtraColumns(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, `archive_id,url_id,url,note
1,10,http://example.com,ignored
`)

	records, err := NewCSV(path).Read(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "http://example.com", records[0].URL)
}

func TestCSVReadHeaderOnly(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "archive_id,url_id,url\n")
	records, err := NewCSV(path).Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCSVReadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "too few columns", content: "archive_id,url_id,url\n1,10\n"},
		{name: "bad archive id", content: "archive_id,url_id,url\nx,10,http://example.com\n"},
		{name: "bad url id", content: "archive_id,url_id,url\n1,y,http://example.com\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeCSV(t, tt.content)
			_, err := NewCSV(path).Read(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestCSVReadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(filepath.Join(t.TempDir(), "nope.csv")).Read(context.Background())
	assert.Error(t, err)
}
