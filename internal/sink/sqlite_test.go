package sink

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

type indexRow struct {
	ArchiveID int64 `db:"archiveID"`
	URLID     int64 `db:"urlID"`
	Succeed   int   `db:"succeed"`
}

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteWritesOneRowPerRecord(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	s, err := NewSQLite(ctx, db)
	require.NoError(t, err)

	results := []snapshot.ResultRecord{
		{ArchiveID: 1, URLID: 10, Status: 200, URL: "http://example.com"},
		{ArchiveID: 1, URLID: 11, Status: -1, URL: "http://slow.example.com"},
		{ArchiveID: 2, URLID: 20, Status: 500, URL: "http://example.net"},
	}
	for _, r := range results {
		require.NoError(t, s.Write(ctx, r))
	}
	require.NoError(t, s.Close())

	var rows []indexRow
	require.NoError(t, db.Select(&rows, `SELECT archiveID, urlID, succeed FROM current_index`))
	require.Len(t, rows, 3)
	assert.Equal(t, indexRow{ArchiveID: 1, URLID: 11, Succeed: -1}, rows[1])
}

func TestSQLiteReplacesPriorIndex(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	first, err := NewSQLite(ctx, db)
	require.NoError(t, err)
	require.NoError(t, first.Write(ctx, snapshot.ResultRecord{ArchiveID: 9, URLID: 99, Status: -5}))

	// A new run wipes everything the previous run wrote.
	second, err := NewSQLite(ctx, db)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM current_index`))
	assert.Zero(t, count)

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, second.Write(ctx, snapshot.ResultRecord{ArchiveID: 1, URLID: i, Status: 200}))
	}
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM current_index`))
	assert.Equal(t, 3, count)
}

func TestMultiFansOutAndCloses(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	dbSink, err := NewSQLite(ctx, db)
	require.NoError(t, err)
	csvSink, err := NewCSV(t.TempDir() + "/index.csv")
	require.NoError(t, err)

	m := NewMulti(dbSink, csvSink)
	require.NoError(t, m.Write(ctx, snapshot.ResultRecord{ArchiveID: 1, URLID: 10, Status: 200, URL: "http://example.com"}))
	require.NoError(t, m.Close())

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM current_index`))
	assert.Equal(t, 1, count)
}
