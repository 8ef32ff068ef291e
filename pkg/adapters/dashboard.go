package adapters

import (
	"github.com/de-tools/port-atlas/pkg/models/api"
	"github.com/de-tools/port-atlas/pkg/models/domain"
)

func MapReportCategories(categories []domain.ReportCategory) []api.ReportCategory {
	out := make([]api.ReportCategory, len(categories))
	for i, c := range categories {
		out[i] = api.ReportCategory{FileName: c.FileName, Suffix: c.Suffix}
	}
	return out
}

func MapKPI(k domain.KPI) api.KPI {
	return api.KPI{
		Metric:        string(k.Metric),
		Label:         k.Label,
		Unit:          k.Unit,
		Value:         k.Value,
		Previous:      k.Previous,
		ChangePct:     k.ChangePct,
		LowerIsBetter: k.LowerIsBetter,
	}
}

func MapTrend(points []domain.TrendPoint) []api.TrendPoint {
	out := make([]api.TrendPoint, len(points))
	for i, p := range points {
		out[i] = api.TrendPoint{Month: p.Month, Turnaround: p.Turnaround, Waiting: p.Waiting}
	}
	return out
}

func MapMonths(f domain.MonthFilter) []string {
	if f.IsAll() {
		return []string{domain.AllMonthsToken}
	}
	return f.Codes()
}

func MapDashboard(d domain.Dashboard) api.Dashboard {
	kpis := make([]api.KPI, len(d.KPIs))
	for i, k := range d.KPIs {
		kpis[i] = MapKPI(k)
	}
	return api.Dashboard{
		Title:        d.Title,
		Port:         d.Scope.String(),
		Months:       MapMonths(d.Months),
		Year:         d.Year,
		PreviousYear: d.PreviousYear,
		KPIs:         kpis,
		Trade: api.TradeBalance{
			Import:   d.Trade.Import,
			Export:   d.Trade.Export,
			Domestic: d.Trade.Domestic,
		},
		Trend: MapTrend(d.Trend),
	}
}
