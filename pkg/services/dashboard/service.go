package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/models/store"
	"github.com/de-tools/port-atlas/pkg/services/metrics"
	"github.com/de-tools/port-atlas/pkg/services/router"
	"github.com/rs/zerolog"
)

const (
	trendSuffix = "turn_round_302"
	// trendProxyPort stands in for the whole network on the trend chart.
	trendProxyPort = "APAPA"
)

type kpiCard struct {
	kind  domain.MetricKind
	label string
	unit  string
}

var cards = []kpiCard{
	{domain.MetricGrossTonnage, "Gross Reg. Tonnage (GRT)", ""},
	{domain.MetricTurnaround, "Turnaround Time", "Days"},
	{domain.MetricWaiting, "Avg Waiting Time", "Days"},
	{domain.MetricDomestic, "Domestic Cargo", "MT"},
	{domain.MetricImport, "Total Import", "MT"},
	{domain.MetricExport, "Total Export", "MT"},
}

type Aggregator interface {
	Aggregate(ctx context.Context, query domain.MetricQuery) (float64, error)
}

type TrendStore interface {
	Builder() sq.StatementBuilderType
	Quote(ident string) string
	QueryGroups(ctx context.Context, b sq.SelectBuilder, keys, values int) ([]store.GroupRow, error)
}

type Service struct {
	aggregator Aggregator
	store      TrendStore
}

func NewService(aggregator Aggregator, store TrendStore) *Service {
	return &Service{aggregator: aggregator, store: store}
}

func Title(scope domain.PortScope) string {
	if scope.IsAll() {
		return "Nigerian Ports Operations Dashboard"
	}
	return fmt.Sprintf("%s Port Operations Dashboard", scope.Port())
}

// Summary assembles the KPI cards, trade balance and efficiency trend for a scope.
// previousYear defaults to year-1.
func (s *Service) Summary(ctx context.Context, scope domain.PortScope, months domain.MonthFilter, year, previousYear int) (domain.Dashboard, error) {
	if previousYear == 0 && year != 0 {
		previousYear = year - 1
	}

	d := domain.Dashboard{
		Title:        Title(scope),
		Scope:        scope,
		Months:       months,
		Year:         year,
		PreviousYear: previousYear,
	}

	for _, c := range cards {
		kpi, err := s.KPI(ctx, c.kind, scope, months, year)
		if err != nil {
			return domain.Dashboard{}, err
		}
		d.KPIs = append(d.KPIs, kpi)

		switch c.kind {
		case domain.MetricImport:
			d.Trade.Import = kpi.Value
		case domain.MetricExport:
			d.Trade.Export = kpi.Value
		case domain.MetricDomestic:
			d.Trade.Domestic = kpi.Value
		}
	}

	d.Trend = s.Trend(ctx, scope)
	return d, nil
}

// KPI computes one card. The previous-year value is 0 until historical data is wired,
// which makes the change 0 as well.
func (s *Service) KPI(ctx context.Context, kind domain.MetricKind, scope domain.PortScope, months domain.MonthFilter, year int) (domain.KPI, error) {
	card, ok := cardFor(kind)
	if !ok {
		return domain.KPI{}, fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidInput, kind)
	}

	value, err := s.aggregator.Aggregate(ctx, domain.MetricQuery{Kind: kind, Scope: scope, Months: months, Year: year})
	if err != nil {
		return domain.KPI{}, err
	}

	previous := 0.0
	return domain.KPI{
		Metric:        kind,
		Label:         card.label,
		Unit:          card.unit,
		Value:         value,
		Previous:      previous,
		ChangePct:     ChangePct(value, previous),
		LowerIsBetter: kind.Combination() == domain.CombineAverage,
	}, nil
}

func ChangePct(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// Trend returns monthly turnaround and waiting averages in calendar order. Any failure
// yields an empty series.
func (s *Service) Trend(ctx context.Context, scope domain.PortScope) []domain.TrendPoint {
	logger := zerolog.Ctx(ctx)

	port := trendProxyPort
	if !scope.IsAll() {
		port = scope.Port()
	}
	table := router.Route(port, trendSuffix)
	month := s.store.Quote(metrics.MonthColumn)

	b := s.store.Builder().
		Select(
			month,
			fmt.Sprintf("AVG(%s)", s.store.Quote("AVG_TURN_ROUND")),
			fmt.Sprintf("AVG(%s)", s.store.Quote("AVG_AWAITING")),
		).
		From(s.store.Quote(table)).
		GroupBy(month)

	rows, err := s.store.QueryGroups(ctx, b, 1, 2)
	if err != nil {
		logger.Debug().Err(err).Str("table", table).Msg("no trend data")
		return []domain.TrendPoint{}
	}

	points := make([]domain.TrendPoint, 0, len(rows))
	for _, r := range rows {
		if r.Keys[0] == nil {
			continue
		}
		points = append(points, domain.TrendPoint{
			Month:      strings.TrimSpace(fmt.Sprint(r.Keys[0])),
			Turnaround: r.Values[0],
			Waiting:    r.Values[1],
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return monthRank(points[i].Month) < monthRank(points[j].Month)
	})
	return points
}

// monthRank places unknown month labels after the vocabulary.
func monthRank(code string) int {
	if i := domain.MonthIndex(code); i >= 0 {
		return i
	}
	return len(domain.Months)
}

func cardFor(kind domain.MetricKind) (kpiCard, bool) {
	for _, c := range cards {
		if c.kind == kind {
			return c, true
		}
	}
	return kpiCard{}, false
}
