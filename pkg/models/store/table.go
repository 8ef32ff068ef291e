package store

import "time"

// ColumnDef is a column to create when a port table does not exist yet.
type ColumnDef struct {
	Name    string
	Numeric bool
}

type UploadRecord struct {
	ID          string
	TableName   string
	SheetName   string
	HeaderRow   int
	RowsWritten int64
	UploadedAt  time.Time
}

// GroupRow is one row of a GROUP BY query: the key columns followed by aggregated values.
type GroupRow struct {
	Keys   []any
	Values []*float64
}
