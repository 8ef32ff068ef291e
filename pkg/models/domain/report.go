package domain

// KPI is a single dashboard card.
type KPI struct {
	Metric        MetricKind
	Label         string
	Unit          string
	Value         float64
	Previous      float64
	ChangePct     float64
	LowerIsBetter bool
}

type TradeBalance struct {
	Import   float64
	Export   float64
	Domestic float64
}

// Dashboard is the aggregated view for one port scope and month selection.
type Dashboard struct {
	Title        string
	Scope        PortScope
	Months       MonthFilter
	Year         int
	PreviousYear int
	KPIs         []KPI
	Trade        TradeBalance
	Trend        []TrendPoint
}

// TrendPoint holds the monthly efficiency averages, in days.
type TrendPoint struct {
	Month      string
	Turnaround *float64
	Waiting    *float64
}
