package api

import "time"

type Column struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Numeric bool   `json:"numeric"`
}

type TableSchema struct {
	Table   string   `json:"table"`
	Columns []Column `json:"columns"`
}

type Dataset struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type PivotRequest struct {
	Rows    []string `json:"rows"`
	Columns []string `json:"columns"`
	Value   string   `json:"value"`
}

type Grid struct {
	RowFields    []string    `json:"row_fields"`
	ColumnFields []string    `json:"column_fields"`
	ValueField   string      `json:"value_field"`
	RowKeys      [][]string  `json:"row_keys"`
	ColumnKeys   [][]string  `json:"column_keys"`
	Cells        [][]float64 `json:"cells"`
}

type FormField struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Numeric bool     `json:"numeric"`
	Options []string `json:"options,omitempty"`
}

type RecordForm struct {
	Table  string      `json:"table"`
	Fields []FormField `json:"fields"`
}

type RecordRequest struct {
	Values map[string]any `json:"values"`
}

type IngestResult struct {
	ID          string   `json:"id"`
	Table       string   `json:"table"`
	Sheet       string   `json:"sheet"`
	HeaderRow   int      `json:"header_row"`
	Columns     []string `json:"columns"`
	RowsWritten int64    `json:"rows_written"`
	Created     bool     `json:"created"`
	Preview     Dataset  `json:"preview"`
}

type RemoteUploadRequest struct {
	Source string `json:"source"`
	Table  string `json:"table,omitempty"`
	Port   string `json:"port,omitempty"`
	Report string `json:"report,omitempty"`
}

type Upload struct {
	ID          string    `json:"id"`
	Table       string    `json:"table"`
	Sheet       string    `json:"sheet"`
	HeaderRow   int       `json:"header_row"`
	RowsWritten int64     `json:"rows_written"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type Error struct {
	Error string `json:"error"`
}
