package ingest

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/services/registry"
	"github.com/de-tools/port-atlas/pkg/store/dialect"
	"github.com/de-tools/port-atlas/pkg/store/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	args := m.Called(ctx, uri)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type fixture struct {
	db      *sql.DB
	store   *sqlstore.Store
	fetcher *mockFetcher
	service *Service
}

func setupFixture(t *testing.T) *fixture {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		db.Close()
	})

	d, err := dialect.For(dialect.SQLite)
	require.NoError(t, err)
	s, err := sqlstore.NewStore(db, d)
	require.NoError(t, err)
	require.NoError(t, s.Init(context.Background()))

	fetcher := new(mockFetcher)
	service, err := NewService(s, fetcher, registry.New(), domain.DefaultPorts)
	require.NoError(t, err)
	service.now = func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}

	return &fixture{db: db, store: s, fetcher: fetcher, service: service}
}

func (f *fixture) count(t *testing.T, table string) int {
	var n int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM "`+table+`"`).Scan(&n))
	return n
}

func turnRoundWorkbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	data := append([][]any{{"Terminal", "Month", "Avg Turn Round", "Avg Awaiting"}}, rows...)
	return buildWorkbook(t, []string{"COMBINED"}, map[string][][]any{"COMBINED": data})
}

func TestService_Ingest(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	table := "apapa_turn_round_302"

	// Given a first upload for the table
	result, err := f.service.Ingest(ctx, turnRoundWorkbook(t,
		[]any{"ENL", "JAN", 4, 1},
		[]any{"ENL", "FEB", 5, 2},
		[]any{"APMT", "JAN", 3, 1},
		[]any{"APMT", "FEB", 6, 3},
		[]any{"PTML", "JAN", 2, 0.5},
		[]any{"PTML", "FEB", 7, 4},
	), table)
	require.NoError(t, err)

	// Then the table is created and every row written
	assert.True(t, result.Created)
	assert.Equal(t, int64(6), result.RowsWritten)
	assert.Equal(t, "COMBINED", result.Sheet)
	assert.Equal(t, []string{"TERMINAL", "MONTH", "AVG_TURN_ROUND", "AVG_AWAITING"}, result.Columns)
	assert.Len(t, result.Preview.Rows, PreviewRows)
	assert.Equal(t, []any{"ENL", "JAN", 4.0, 1.0}, result.Preview.Rows[0])
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, 6, f.count(t, table))

	schema, err := f.store.DescribeTable(ctx, table)
	require.NoError(t, err)
	col, _ := schema.Column("AVG_TURN_ROUND")
	assert.True(t, col.Numeric)

	// When a second upload arrives, rows are appended
	result, err = f.service.Ingest(ctx, turnRoundWorkbook(t, []any{"ENL", "MAR", 4, 1}), table)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, 7, f.count(t, table))

	uploads, err := f.service.Uploads(ctx, 10)
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, table, uploads[0].Table)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), uploads[0].UploadedAt.UTC())
}

func TestService_Ingest_SchemaMismatchRollsBack(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	table := "warri_turn_round_302"

	_, err := f.service.Ingest(ctx, turnRoundWorkbook(t, []any{"ENL", "JAN", 4, 1}), table)
	require.NoError(t, err)

	other := buildWorkbook(t, []string{"Sheet1"}, map[string][][]any{
		"Sheet1": {{"Month", "Berth Occupancy"}, {"JAN", 80}},
	})
	_, err = f.service.Ingest(ctx, other, table)
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)

	assert.Equal(t, 1, f.count(t, table))
	uploads, err := f.service.Uploads(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, uploads, 1)
}

func TestService_Ingest_InvalidInput(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.service.Ingest(ctx, bytes.NewBufferString("garbage"), "onne_turn_round_302")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	for _, table := range []string{"", "report_uploads", "Apapa_x", "x; DROP TABLE y"} {
		_, err := f.service.Ingest(ctx, turnRoundWorkbook(t), table)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, table)
	}
}

func TestService_ResolveTarget(t *testing.T) {
	f := setupFixture(t)

	table, err := f.service.ResolveTarget("Warri", "TABLE 3.02 TURN-ROUND TIME OF SHIPS COMPLETED WARRI.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "warri_turn_round_302", table)

	table, err = f.service.ResolveTarget("tin can", "TABLE 3.03 BERTH OCCUPANCY RATE WARRI.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "tin can_berth_occupancy_303", table)

	_, err = f.service.ResolveTarget("ALL", "TABLE 3.03 BERTH OCCUPANCY RATE WARRI.xlsx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.service.ResolveTarget("APAPA", "unknown.xlsx")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestService_IngestSource(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	wb := turnRoundWorkbook(t, []any{"ENL", "JAN", 4, 1})
	f.fetcher.On("Fetch", ctx, "s3://reports/apapa.xlsx").Return(wb.Bytes(), nil)
	f.fetcher.On("Fetch", ctx, "s3://reports/missing.xlsx").Return(nil, errors.New("NoSuchKey"))

	result, err := f.service.IngestSource(ctx, "s3://reports/apapa.xlsx", "apapa_turn_round_302")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RowsWritten)

	_, err = f.service.IngestSource(ctx, "s3://reports/missing.xlsx", "apapa_turn_round_302")
	assert.Error(t, err)
	f.fetcher.AssertExpectations(t)
}
