package domain

import "time"

type IngestResult struct {
	ID          string
	Table       string
	Sheet       string
	HeaderRow   int
	Columns     []string
	RowsWritten int64
	Created     bool
	Preview     Dataset
}

type UploadRecord struct {
	ID          string
	Table       string
	Sheet       string
	HeaderRow   int
	RowsWritten int64
	UploadedAt  time.Time
}

// RecordForm describes the input fields for manual entry into a port table.
type RecordForm struct {
	Table  string
	Fields []FormField
}

type FormField struct {
	Name    string
	Type    string
	Numeric bool
	Options []string
}
