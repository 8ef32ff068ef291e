package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/models/store"
	"github.com/de-tools/port-atlas/pkg/store/dialect"
	"github.com/rs/zerolog"
)

const (
	UploadLogTable = "report_uploads"

	// maxChunkRows bounds a multi-row insert; maxParams keeps wide tables under driver limits.
	maxChunkRows = 500
	maxParams    = 32766
)

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the single SQL gateway used by every service. Statements issued with a
// context produced by WithTx run inside that transaction.
type Store struct {
	db      *sql.DB
	dialect dialect.Dialect
}

func NewStore(db *sql.DB, d dialect.Dialect) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if d.Name == "" {
		return nil, fmt.Errorf("store dialect is not set")
	}
	return &Store{db: db, dialect: d}, nil
}

func (s *Store) Dialect() dialect.Dialect {
	return s.dialect
}

func (s *Store) Quote(ident string) string {
	return s.dialect.Quote(ident)
}

func (s *Store) Builder() sq.StatementBuilderType {
	return s.dialect.Builder()
}

func (s *Store) executor(ctx context.Context) executor {
	if tx := GetTransaction(ctx); tx != nil {
		return tx
	}
	return s.db
}

// WithTx runs fn in a transaction, committing on success and rolling back on error.
// Nested calls reuse the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if GetTransaction(ctx) != nil {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(WithTransaction(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zerolog.Ctx(ctx).Warn().Err(rbErr).Msg("failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Init creates the upload history table when it is missing.
func (s *Store) Init(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id %[2]s NOT NULL,
		table_name %[2]s NOT NULL,
		sheet_name %[2]s,
		header_row %[3]s,
		rows_written %[3]s,
		uploaded_at %[4]s
	)`, s.Quote(UploadLogTable), s.dialect.TextType, s.dialect.IntegerType, s.dialect.TimeType)

	if _, err := s.executor(ctx).ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", UploadLogTable, err)
	}
	return nil
}

func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.executor(ctx).QueryContext(ctx, s.dialect.TablesQuery)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer closeRows(ctx, rows)

	tables := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		if name == UploadLogTable {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// DescribeTable returns the ordered columns of table, or ErrTableNotFound.
func (s *Store) DescribeTable(ctx context.Context, table string) (domain.TableSchema, error) {
	rows, err := s.executor(ctx).QueryContext(ctx, s.dialect.ColumnsQuery, table)
	if err != nil {
		return domain.TableSchema{}, fmt.Errorf("describe %s: %w", table, err)
	}
	defer closeRows(ctx, rows)

	schema := domain.TableSchema{Table: table}
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return domain.TableSchema{}, fmt.Errorf("scan column: %w", err)
		}
		schema.Columns = append(schema.Columns, domain.ColumnInfo{
			Name:    name,
			Type:    typ,
			Numeric: dialect.IsNumeric(typ),
		})
	}
	if err := rows.Err(); err != nil {
		return domain.TableSchema{}, fmt.Errorf("describe %s: %w", table, err)
	}

	if len(schema.Columns) == 0 {
		return domain.TableSchema{}, fmt.Errorf("%w: %s", domain.ErrTableNotFound, table)
	}
	return schema, nil
}

func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	_, err := s.DescribeTable(ctx, table)
	if errors.Is(err, domain.ErrTableNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// QueryFloat runs a single-value aggregate. A NULL result yields nil.
func (s *Store) QueryFloat(ctx context.Context, b sq.SelectBuilder) (*float64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v sql.NullFloat64
	if err := s.executor(ctx).QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		return nil, err
	}
	if !v.Valid {
		return nil, nil
	}
	return &v.Float64, nil
}

// QueryGroups runs a grouped query whose first keys columns are group keys
// and remaining values columns are numeric aggregates.
func (s *Store) QueryGroups(ctx context.Context, b sq.SelectBuilder, keys, values int) ([]store.GroupRow, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(ctx, rows)

	result := make([]store.GroupRow, 0)
	for rows.Next() {
		keyVals := make([]any, keys)
		aggVals := make([]sql.NullFloat64, values)
		dest := make([]any, 0, keys+values)
		for i := range keyVals {
			dest = append(dest, &keyVals[i])
		}
		for i := range aggVals {
			dest = append(dest, &aggVals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}

		row := store.GroupRow{Keys: make([]any, keys), Values: make([]*float64, values)}
		for i, k := range keyVals {
			row.Keys[i] = normalize(k)
		}
		for i, v := range aggVals {
			if v.Valid {
				f := v.Float64
				row.Values[i] = &f
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Distinct returns the non-null distinct values of column rendered as strings.
func (s *Store) Distinct(ctx context.Context, table, column string) ([]string, error) {
	col := s.Quote(column)
	query, args, err := s.Builder().
		Select(col).Distinct().
		From(s.Quote(table)).
		Where(sq.NotEq{col: nil}).
		OrderBy(col).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", table, column, err)
	}
	defer closeRows(ctx, rows)

	values := make([]string, 0)
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		values = append(values, fmt.Sprint(normalize(v)))
	}
	return values, rows.Err()
}

// Rows reads up to limit rows of table; limit <= 0 reads everything.
func (s *Store) Rows(ctx context.Context, table string, limit int) (domain.Dataset, error) {
	b := s.Builder().Select("*").From(s.Quote(table))
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read %s: %w", table, err)
	}
	defer closeRows(ctx, rows)

	columns, err := rows.Columns()
	if err != nil {
		return domain.Dataset{}, err
	}

	ds := domain.Dataset{Columns: columns, Rows: make([][]any, 0)}
	for rows.Next() {
		vals := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return domain.Dataset{}, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range vals {
			vals[i] = normalize(v)
		}
		ds.Rows = append(ds.Rows, vals)
	}
	return ds, rows.Err()
}

func (s *Store) CreateTable(ctx context.Context, table string, columns []store.ColumnDef) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: no columns for %s", domain.ErrInvalidInput, table)
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		typ := s.dialect.TextType
		if c.Numeric {
			typ = s.dialect.NumericType
		}
		defs[i] = s.Quote(c.Name) + " " + typ
	}

	query := fmt.Sprintf("CREATE TABLE %s (%s)", s.Quote(table), strings.Join(defs, ", "))
	if _, err := s.executor(ctx).ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// Append inserts rows into table in multi-row chunks and returns the number written.
func (s *Store) Append(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("%w: no columns to insert into %s", domain.ErrInvalidInput, table)
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = s.Quote(c)
	}

	chunk := maxChunkRows
	if perRow := maxParams / len(columns); perRow < chunk {
		chunk = perRow
	}

	var written int64
	for start := 0; start < len(rows); start += chunk {
		end := min(start+chunk, len(rows))

		b := s.Builder().Insert(s.Quote(table)).Columns(quoted...)
		for _, row := range rows[start:end] {
			if len(row) != len(columns) {
				return written, fmt.Errorf("%w: row has %d values, expected %d", domain.ErrInvalidInput, len(row), len(columns))
			}
			b = b.Values(row...)
		}

		query, args, err := b.ToSql()
		if err != nil {
			return written, fmt.Errorf("build insert: %w", err)
		}
		if _, err := s.executor(ctx).ExecContext(ctx, query, args...); err != nil {
			return written, fmt.Errorf("insert into %s: %w", table, err)
		}
		written += int64(end - start)
	}
	return written, nil
}

func (s *Store) RecordUpload(ctx context.Context, record store.UploadRecord) error {
	query, args, err := s.Builder().
		Insert(s.Quote(UploadLogTable)).
		Columns("id", "table_name", "sheet_name", "header_row", "rows_written", "uploaded_at").
		Values(record.ID, record.TableName, record.SheetName, record.HeaderRow, record.RowsWritten, record.UploadedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.executor(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}

// ListUploads returns the most recent uploads first.
func (s *Store) ListUploads(ctx context.Context, limit int) ([]store.UploadRecord, error) {
	b := s.Builder().
		Select("id", "table_name", "sheet_name", "header_row", "rows_written", "uploaded_at").
		From(s.Quote(UploadLogTable)).
		OrderBy("uploaded_at DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer closeRows(ctx, rows)

	records := make([]store.UploadRecord, 0)
	for rows.Next() {
		var (
			r     store.UploadRecord
			sheet sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.TableName, &sheet, &r.HeaderRow, &r.RowsWritten, &r.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		r.SheetName = sheet.String
		records = append(records, r)
	}
	return records, rows.Err()
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close rows")
	}
}

// normalize turns driver byte slices into strings so values render and compare uniformly.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
