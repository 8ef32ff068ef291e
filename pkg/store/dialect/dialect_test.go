package dialect

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	for _, name := range Names() {
		d, err := For(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name)
	}

	d, err := For(" DuckDB ")
	require.NoError(t, err)
	assert.Equal(t, DuckDB, d.Name)

	_, err = For("oracle")
	assert.Error(t, err)
}

func TestDialect_Quote(t *testing.T) {
	tests := []struct {
		driver string
		ident  string
		want   string
	}{
		{DuckDB, "AVG_TURN_ROUND", `"AVG_TURN_ROUND"`},
		{Postgres, "tin can_turn_round_302", `"tin can_turn_round_302"`},
		{SQLite, `we"ird`, `"we""ird"`},
		{Databricks, "MONTH", "`MONTH`"},
		{Databricks, "a`b", "`a``b`"},
	}

	for _, tt := range tests {
		t.Run(tt.driver+"/"+tt.ident, func(t *testing.T) {
			d, err := For(tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Quote(tt.ident))
		})
	}
}

func TestDialect_BuilderPlaceholders(t *testing.T) {
	pg, _ := For(Postgres)
	query, args, err := pg.Builder().Select("1").From("t").Where(sq.Eq{"a": []string{"JAN", "FEB"}}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 FROM t WHERE a IN ($1,$2)", query)
	assert.Equal(t, []interface{}{"JAN", "FEB"}, args)

	duck, _ := For(DuckDB)
	query, _, err = duck.Builder().Select("1").From("t").Where(sq.Eq{"a": "JAN"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 FROM t WHERE a = ?", query)
}

func TestIsNumeric(t *testing.T) {
	for _, typ := range []string{"integer", "BIGINT", "double precision", "DOUBLE", "FLOAT", "numeric(10,2)", "DECIMAL(18,3)", "REAL", "NUMBER"} {
		assert.True(t, IsNumeric(typ), typ)
	}
	for _, typ := range []string{"text", "VARCHAR", "character varying", "STRING", "TIMESTAMP", "boolean"} {
		assert.False(t, IsNumeric(typ), typ)
	}
}
