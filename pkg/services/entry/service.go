package entry

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/services/router"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// choiceColumns offer the values already present in the table instead of free text.
var choiceColumns = []string{"TERMINAL", "MONTH"}

type Store interface {
	DescribeTable(ctx context.Context, table string) (domain.TableSchema, error)
	Distinct(ctx context.Context, table, column string) ([]string, error)
	Append(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}

type Registry interface {
	Lookup(filename string) (string, error)
}

type Service struct {
	store    Store
	registry Registry
	ports    []string
}

func NewService(store Store, registry Registry, ports []string) *Service {
	return &Service{store: store, registry: registry, ports: ports}
}

// Form describes the input fields for a port's report table. The table must already exist.
func (s *Service) Form(ctx context.Context, port, reportFile string) (domain.RecordForm, error) {
	logger := zerolog.Ctx(ctx)

	scope, err := domain.ParsePortScope(port, s.ports)
	if err != nil {
		return domain.RecordForm{}, err
	}
	if scope.IsAll() {
		return domain.RecordForm{}, fmt.Errorf("%w: select a specific port", domain.ErrInvalidInput)
	}

	suffix, err := s.registry.Lookup(reportFile)
	if err != nil {
		return domain.RecordForm{}, err
	}
	table := router.Route(scope.Port(), suffix)

	schema, err := s.store.DescribeTable(ctx, table)
	if err != nil {
		return domain.RecordForm{}, err
	}

	form := domain.RecordForm{Table: table}
	for _, c := range schema.Columns {
		field := domain.FormField{Name: c.Name, Type: c.Type, Numeric: c.Numeric}
		if lo.Contains(choiceColumns, c.Name) {
			options, err := s.store.Distinct(ctx, table, c.Name)
			if err != nil {
				logger.Debug().Err(err).Str("table", table).Str("column", c.Name).Msg("no distinct values")
			} else {
				field.Options = options
			}
		}
		form.Fields = append(form.Fields, field)
	}
	return form, nil
}

// Save validates values against the table's columns and inserts them as one row.
// Numeric values must be non-negative.
func (s *Service) Save(ctx context.Context, table string, values map[string]any) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no values to save", domain.ErrInvalidInput)
	}

	schema, err := s.store.DescribeTable(ctx, table)
	if err != nil {
		return err
	}

	for name := range values {
		if _, ok := schema.Column(name); !ok {
			return fmt.Errorf("%w: column %q not in %s", domain.ErrInvalidInput, name, table)
		}
	}

	var (
		columns []string
		row     []any
	)
	for _, c := range schema.Columns {
		raw, ok := values[c.Name]
		if !ok {
			continue
		}
		v, err := convert(c, raw)
		if err != nil {
			return err
		}
		columns = append(columns, c.Name)
		row = append(row, v)
	}

	if _, err := s.store.Append(ctx, table, columns, [][]any{row}); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("table", table).Int("columns", len(columns)).Msg("record saved")
	return nil
}

func convert(c domain.ColumnInfo, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	if !c.Numeric {
		text := strings.TrimSpace(fmt.Sprint(raw))
		if text == "" {
			return nil, nil
		}
		return text, nil
	}

	var (
		v   float64
		err error
	)
	switch t := raw.(type) {
	case float64:
		v = t
	case int:
		v = float64(t)
	case int64:
		v = float64(t)
	case json.Number:
		v, err = t.Float64()
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		v, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		err = fmt.Errorf("unsupported type %T", raw)
	}
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, c.Name)
	}
	if v < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, c.Name)
	}
	return v, nil
}
