package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/models/store"
)

var columnReplacer = strings.NewReplacer(
	" ", "_",
	"/", "_",
	".", "",
	"(", "",
	")", "",
	"&", "AND",
	"-", "_",
)

// CanonicalColumn maps a raw header to the stored column name. It is idempotent.
func CanonicalColumn(raw string) string {
	return columnReplacer.Replace(strings.ToUpper(strings.TrimSpace(raw)))
}

// Normalized is a frame ready to be written: canonical column names, inferred
// column types and typed values (float64 for numeric columns, string otherwise, nil when empty).
type Normalized struct {
	Columns []store.ColumnDef
	Rows    [][]any
}

func (n Normalized) ColumnNames() []string {
	names := make([]string, len(n.Columns))
	for i, c := range n.Columns {
		names[i] = c.Name
	}
	return names
}

func Normalize(frame Frame) (Normalized, error) {
	columns := make([]store.ColumnDef, len(frame.Columns))
	seen := map[string]string{}
	for i, raw := range frame.Columns {
		name := CanonicalColumn(raw)
		if name == "" {
			return Normalized{}, fmt.Errorf("%w: header %q normalizes to an empty name", domain.ErrInvalidInput, raw)
		}
		if prev, ok := seen[name]; ok {
			return Normalized{}, fmt.Errorf("%w: headers %q and %q both normalize to %s", domain.ErrInvalidInput, prev, raw, name)
		}
		seen[name] = raw
		columns[i] = store.ColumnDef{Name: name, Numeric: numericColumn(frame.Rows, i)}
	}

	rows := make([][]any, len(frame.Rows))
	for r, raw := range frame.Rows {
		row := make([]any, len(columns))
		for i, c := range columns {
			cell := strings.TrimSpace(raw[i])
			switch {
			case cell == "":
				row[i] = nil
			case c.Numeric:
				v, _ := parseNumber(cell)
				row[i] = v
			default:
				row[i] = cell
			}
		}
		rows[r] = row
	}

	return Normalized{Columns: columns, Rows: rows}, nil
}

// numericColumn reports whether every non-empty cell of column i is a number.
// A column with no values at all counts as numeric.
func numericColumn(rows [][]string, i int) bool {
	for _, r := range rows {
		cell := strings.TrimSpace(r[i])
		if cell == "" {
			continue
		}
		if _, ok := parseNumber(cell); !ok {
			return false
		}
	}
	return true
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
