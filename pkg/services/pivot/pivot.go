package pivot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

type Store interface {
	Builder() sq.StatementBuilderType
	Quote(ident string) string
	DescribeTable(ctx context.Context, table string) (domain.TableSchema, error)
	QueryGroups(ctx context.Context, b sq.SelectBuilder, keys, values int) ([]store.GroupRow, error)
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Pivot cross-tabulates spec.Value summed by the row and column fields. Rows whose
// key fields are NULL are dropped, absent combinations are 0, and both axes are
// sorted in natural ascending order. Every failure is returned to the caller.
func (e *Engine) Pivot(ctx context.Context, spec domain.PivotSpec) (domain.Grid, error) {
	if err := validateSpec(spec); err != nil {
		return domain.Grid{}, err
	}

	schema, err := e.store.DescribeTable(ctx, spec.Table)
	if err != nil {
		return domain.Grid{}, err
	}
	if err := checkFields(schema, spec); err != nil {
		return domain.Grid{}, err
	}

	fields := append(append([]string{}, spec.Rows...), spec.Columns...)
	selects := make([]string, 0, len(fields)+1)
	groups := make([]string, 0, len(fields))
	for _, f := range fields {
		q := e.store.Quote(f)
		selects = append(selects, q)
		groups = append(groups, q)
	}
	selects = append(selects, fmt.Sprintf("SUM(%s)", e.store.Quote(spec.Value)))

	b := e.store.Builder().
		Select(selects...).
		From(e.store.Quote(spec.Table)).
		GroupBy(groups...)

	rows, err := e.store.QueryGroups(ctx, b, len(fields), 1)
	if err != nil {
		return domain.Grid{}, fmt.Errorf("pivot %s: %w", spec.Table, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("table", spec.Table).
		Int("groups", len(rows)).
		Msg("pivot groups loaded")

	return buildGrid(spec, rows), nil
}

func validateSpec(spec domain.PivotSpec) error {
	if strings.TrimSpace(spec.Table) == "" {
		return fmt.Errorf("%w: table is required", domain.ErrInvalidInput)
	}
	if len(spec.Rows) == 0 {
		return fmt.Errorf("%w: at least one row field is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(spec.Value) == "" {
		return fmt.Errorf("%w: value field is required", domain.ErrInvalidInput)
	}

	seen := map[string]bool{spec.Value: true}
	for _, f := range append(append([]string{}, spec.Rows...), spec.Columns...) {
		if seen[f] {
			return fmt.Errorf("%w: field %q is used more than once", domain.ErrInvalidInput, f)
		}
		seen[f] = true
	}
	return nil
}

func checkFields(schema domain.TableSchema, spec domain.PivotSpec) error {
	for _, f := range append(append([]string{}, spec.Rows...), spec.Columns...) {
		if _, ok := schema.Column(f); !ok {
			return fmt.Errorf("%w: column %q not in %s", domain.ErrInvalidInput, f, schema.Table)
		}
	}

	value, ok := schema.Column(spec.Value)
	if !ok {
		return fmt.Errorf("%w: column %q not in %s", domain.ErrInvalidInput, spec.Value, schema.Table)
	}
	if !value.Numeric {
		return fmt.Errorf("%w: value column %q is not numeric", domain.ErrInvalidInput, spec.Value)
	}
	return nil
}

func buildGrid(spec domain.PivotSpec, rows []store.GroupRow) domain.Grid {
	nRows := len(spec.Rows)

	rowIndex := map[string][]string{}
	colIndex := map[string][]string{}
	sums := map[string]map[string]float64{}

	for _, r := range rows {
		keys, ok := renderKeys(r.Keys)
		if !ok {
			continue
		}
		rk, ck := keys[:nRows], keys[nRows:]
		rid, cid := joinKey(rk), joinKey(ck)
		rowIndex[rid] = rk
		colIndex[cid] = ck

		if sums[rid] == nil {
			sums[rid] = map[string]float64{}
		}
		if v := r.Values[0]; v != nil {
			sums[rid][cid] += *v
		}
	}

	rowKeys := sortedKeys(rowIndex)
	colKeys := sortedKeys(colIndex)
	if len(spec.Columns) == 0 {
		colKeys = [][]string{{}}
	}

	cells := make([][]float64, len(rowKeys))
	for i, rk := range rowKeys {
		cells[i] = make([]float64, len(colKeys))
		for j, ck := range colKeys {
			cells[i][j] = sums[joinKey(rk)][joinKey(ck)]
		}
	}

	return domain.Grid{
		RowFields:    spec.Rows,
		ColumnFields: spec.Columns,
		ValueField:   spec.Value,
		RowKeys:      rowKeys,
		ColumnKeys:   colKeys,
		Cells:        cells,
	}
}

func renderKeys(values []any) ([]string, bool) {
	keys := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			return nil, false
		}
		keys[i] = FormatKey(v)
	}
	return keys, true
}

const keySep = "\x1f"

func joinKey(parts []string) string {
	return strings.Join(parts, keySep)
}

func sortedKeys(index map[string][]string) [][]string {
	keys := make([][]string, 0, len(index))
	raw := make([]string, 0, len(index))
	for k := range index {
		raw = append(raw, k)
	}
	sort.Strings(raw)
	for _, k := range raw {
		keys = append(keys, index[k])
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return lessKey(keys[i], keys[j])
	})
	return keys
}

func lessKey(a, b []string) bool {
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		return NaturalLess(a[i], b[i])
	}
	return false
}
