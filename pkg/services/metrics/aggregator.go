package metrics

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/services/router"
	"github.com/rs/zerolog"
)

type Querier interface {
	Builder() sq.StatementBuilderType
	Quote(ident string) string
	QueryFloat(ctx context.Context, b sq.SelectBuilder) (*float64, error)
}

type Aggregator struct {
	querier Querier
	ports   []string
}

func NewAggregator(querier Querier, ports []string) *Aggregator {
	return &Aggregator{querier: querier, ports: ports}
}

// Aggregate computes one KPI value. Each target port is queried independently; a port
// whose table is missing, fails, or has no data contributes nothing. With no
// contributing port the result is 0.
func (a *Aggregator) Aggregate(ctx context.Context, query domain.MetricQuery) (float64, error) {
	def, ok := definitions[query.Kind]
	if !ok {
		return 0, fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidInput, query.Kind)
	}

	logger := zerolog.Ctx(ctx).With().
		Str("metric", string(query.Kind)).
		Str("port", query.Scope.String()).
		Int("year", query.Year).
		Logger()

	var acc accumulator
	for _, port := range query.Scope.Ports(a.ports) {
		table := router.Route(port, def.suffix)

		v, err := a.querier.QueryFloat(ctx, a.builder(def, table, query.Months))
		if err != nil {
			logger.Debug().Err(err).Str("table", table).Msg("skipping port")
			continue
		}
		if v == nil {
			continue
		}
		acc.add(*v)
	}

	return acc.result(query.Kind.Combination()), nil
}

func (a *Aggregator) builder(def definition, table string, months domain.MonthFilter) sq.SelectBuilder {
	terms := make([]string, len(def.columns))
	for i, c := range def.columns {
		terms[i] = fmt.Sprintf("%s(%s)", def.agg, a.querier.Quote(c))
	}

	b := a.querier.Builder().
		Select(strings.Join(terms, " + ")).
		From(a.querier.Quote(table))
	if !months.IsAll() {
		b = b.Where(sq.Eq{a.querier.Quote(MonthColumn): months.Codes()})
	}
	return b
}
