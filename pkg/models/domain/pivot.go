package domain

// PivotSpec selects the fields of a cross-tabulation. Aggregation is always a sum and missing
// combinations are filled with zero.
type PivotSpec struct {
	Table   string
	Rows    []string
	Columns []string
	Value   string
}

// Grid is a pivoted table. Cells[i][j] holds the sum for RowKeys[i] x ColumnKeys[j].
// Without column fields ColumnKeys holds a single empty key.
type Grid struct {
	RowFields    []string
	ColumnFields []string
	ValueField   string
	RowKeys      [][]string
	ColumnKeys   [][]string
	Cells        [][]float64
}
