package entry

import (
	"context"
	"database/sql"
	"testing"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/models/store"
	"github.com/de-tools/port-atlas/pkg/services/registry"
	"github.com/de-tools/port-atlas/pkg/store/dialect"
	"github.com/de-tools/port-atlas/pkg/store/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const (
	turnRoundFile = "TABLE 3.02 TURN-ROUND TIME OF SHIPS COMPLETED WARRI.xlsx"
	table         = "warri_turn_round_302"
)

type fixture struct {
	db      *sql.DB
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

	ctx := context.Background()
	require.NoError(t, s.CreateTable(ctx, table, []store.ColumnDef{
		{Name: "TERMINAL"},
		{Name: "MONTH"},
		{Name: "AVG_TURN_ROUND", Numeric: true},
		{Name: "REMARKS"},
	}))
	_, err = s.Append(ctx, table, []string{"TERMINAL", "MONTH", "AVG_TURN_ROUND", "REMARKS"}, [][]any{
		{"OLD PORT", "JAN", 3.0, nil},
		{"NEW PORT", "FEB", 4.0, "late"},
	})
	require.NoError(t, err)

	return &fixture{db: db, service: NewService(s, registry.New(), domain.DefaultPorts)}
}

func TestService_Form(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	form, err := f.service.Form(ctx, "warri", turnRoundFile)
	require.NoError(t, err)

	assert.Equal(t, table, form.Table)
	require.Len(t, form.Fields, 4)
	assert.Equal(t, []string{"NEW PORT", "OLD PORT"}, form.Fields[0].Options)
	assert.Equal(t, []string{"FEB", "JAN"}, form.Fields[1].Options)
	assert.True(t, form.Fields[2].Numeric)
	assert.Nil(t, form.Fields[2].Options)
	assert.False(t, form.Fields[3].Numeric)
}

func TestService_Form_Errors(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.service.Form(ctx, "ALL", turnRoundFile)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.service.Form(ctx, "WARRI", "nope.xlsx")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	_, err = f.service.Form(ctx, "ONNE", turnRoundFile)
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
}

func TestService_Save(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	err := f.service.Save(ctx, table, map[string]any{
		"TERMINAL":       "OLD PORT",
		"MONTH":          "MAR",
		"AVG_TURN_ROUND": "5.5",
	})
	require.NoError(t, err)

	var v float64
	require.NoError(t, f.db.QueryRow(`SELECT "AVG_TURN_ROUND" FROM "warri_turn_round_302" WHERE "MONTH" = 'MAR'`).Scan(&v))
	assert.Equal(t, 5.5, v)
}

func TestService_Save_Errors(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		table   string
		values  map[string]any
		wantErr error
	}{
		{"empty", table, map[string]any{}, domain.ErrInvalidInput},
		{"unknown column", table, map[string]any{"BERTH": "1"}, domain.ErrInvalidInput},
		{"negative number", table, map[string]any{"AVG_TURN_ROUND": -1.0}, domain.ErrInvalidInput},
		{"not a number", table, map[string]any{"AVG_TURN_ROUND": "fast"}, domain.ErrInvalidInput},
		{"missing table", "onne_turn_round_302", map[string]any{"MONTH": "JAN"}, domain.ErrTableNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.service.Save(ctx, tt.table, tt.values)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var n int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM "warri_turn_round_302"`).Scan(&n))
	assert.Equal(t, 2, n)
}
