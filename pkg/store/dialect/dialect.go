package dialect

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const (
	DuckDB     = "duckdb"
	Postgres   = "postgres"
	SQLite     = "sqlite"
	Snowflake  = "snowflake"
	Databricks = "databricks"
)

// Dialect captures the differences between the supported SQL backends.
type Dialect struct {
	Name        string
	Placeholder sq.PlaceholderFormat
	quote       byte
	NumericType string
	TextType    string
	IntegerType string
	TimeType    string
	// TablesQuery lists user tables, one name per row.
	TablesQuery string
	// ColumnsQuery lists (name, type) pairs for the table bound to its single parameter.
	ColumnsQuery string
}

var dialects = map[string]Dialect{
	DuckDB: {
		Name:         DuckDB,
		Placeholder:  sq.Question,
		quote:        '"',
		NumericType:  "DOUBLE",
		TextType:     "VARCHAR",
		IntegerType:  "BIGINT",
		TimeType:     "TIMESTAMP",
		TablesQuery:  informationSchemaTables,
		ColumnsQuery: informationSchemaColumns("?"),
	},
	Postgres: {
		Name:         Postgres,
		Placeholder:  sq.Dollar,
		quote:        '"',
		NumericType:  "DOUBLE PRECISION",
		TextType:     "TEXT",
		IntegerType:  "BIGINT",
		TimeType:     "TIMESTAMP",
		TablesQuery:  informationSchemaTables,
		ColumnsQuery: informationSchemaColumns("$1"),
	},
	SQLite: {
		Name:         SQLite,
		Placeholder:  sq.Question,
		quote:        '"',
		NumericType:  "DOUBLE",
		TextType:     "TEXT",
		IntegerType:  "INTEGER",
		TimeType:     "TIMESTAMP",
		TablesQuery:  `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
		ColumnsQuery: `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`,
	},
	Snowflake: {
		Name:         Snowflake,
		Placeholder:  sq.Question,
		quote:        '"',
		NumericType:  "FLOAT",
		TextType:     "VARCHAR",
		IntegerType:  "NUMBER(38,0)",
		TimeType:     "TIMESTAMP_NTZ",
		TablesQuery:  informationSchemaTables,
		ColumnsQuery: informationSchemaColumns("?"),
	},
	Databricks: {
		Name:         Databricks,
		Placeholder:  sq.Question,
		quote:        '`',
		NumericType:  "DOUBLE",
		TextType:     "STRING",
		IntegerType:  "BIGINT",
		TimeType:     "TIMESTAMP",
		TablesQuery:  informationSchemaTables,
		ColumnsQuery: informationSchemaColumns("?"),
	},
}

const informationSchemaTables = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = current_schema()
	ORDER BY table_name
`

func informationSchemaColumns(placeholder string) string {
	return fmt.Sprintf(`
	SELECT column_name, data_type
	FROM information_schema.columns
	WHERE table_schema = current_schema() AND table_name = %s
	ORDER BY ordinal_position
`, placeholder)
}

// For returns the dialect registered under name.
func For(name string) (Dialect, error) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported store driver %q", name)
	}
	return d, nil
}

func Names() []string {
	return []string{DuckDB, Postgres, SQLite, Snowflake, Databricks}
}

// Quote wraps an identifier in the dialect's quote character, doubling any embedded quote.
func (d Dialect) Quote(ident string) string {
	q := string(d.quote)
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

func (d Dialect) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

var numericMarkers = []string{"int", "double", "float", "numeric", "decimal", "real", "number"}

// IsNumeric reports whether a catalog data type holds numbers.
func IsNumeric(dataType string) bool {
	t := strings.ToLower(dataType)
	for _, m := range numericMarkers {
		if strings.Contains(t, m) {
			return true
		}
	}
	return false
}
