package domain

// ReportCategory maps a report file name to the canonical table suffix shared by every port.
type ReportCategory struct {
	FileName string
	Suffix   string
}

// ColumnInfo describes one column as reported by the store catalog.
type ColumnInfo struct {
	Name    string
	Type    string
	Numeric bool
}

// TableSchema is the ordered column list of a table, discovered at call time.
type TableSchema struct {
	Table   string
	Columns []ColumnInfo
}

func (s TableSchema) Column(name string) (ColumnInfo, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

func (s TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Dataset is a tabular result with columns in select order.
type Dataset struct {
	Columns []string
	Rows    [][]any
}
