package duckdb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/port-atlas/pkg/models/store"
	"github.com/de-tools/port-atlas/pkg/store/dialect"
	"github.com/de-tools/port-atlas/pkg/store/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_Threads(t *testing.T) {
	tests := []struct {
		name     string
		threads  int
		expected int64
	}{
		{"default", 0, defaultThreads},
		{"configured", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := NewDB(Settings{DbPath: ":memory:", Threads: tt.threads})
			require.NoError(t, err)
			t.Cleanup(func() {
				db.Close()
			})

			var threads int64
			require.NoError(t, db.QueryRow("SELECT current_setting('threads')").Scan(&threads))
			assert.Equal(t, tt.expected, threads)
		})
	}
}

func TestNewDB_UploadLogSurvivesReopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb-test-*")
	require.NoError(t, err)

	defer func() {
		err := os.RemoveAll(tmpDir)
		if err != nil {
			t.Errorf("failed to cleanup test directory: %v", err)
		}
	}()

	ctx := context.Background()
	dbPath := filepath.Join(tmpDir, "test.db")
	d, err := dialect.For(dialect.DuckDB)
	require.NoError(t, err)

	open := func() (*sql.DB, *sqlstore.Store) {
		db, err := NewDB(Settings{DbPath: dbPath})
		require.NoError(t, err)
		s, err := sqlstore.NewStore(db, d)
		require.NoError(t, err)
		require.NoError(t, s.Init(ctx))
		return db, s
	}

	// Given an upload recorded in a fresh database
	db, s := open()
	require.NoError(t, s.RecordUpload(ctx, store.UploadRecord{
		ID:          "upload-001",
		TableName:   "apapa_turn_round_302",
		SheetName:   "COMBINED",
		RowsWritten: 12,
		UploadedAt:  time.Now().UTC(),
	}))
	require.NoError(t, db.Close())

	// When the database is reopened and initialized again
	db, s = open()
	defer db.Close()

	// Then the history is kept
	uploads, err := s.ListUploads(ctx, 10)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "apapa_turn_round_302", uploads[0].TableName)
}
