package metrics

import "github.com/de-tools/port-atlas/pkg/models/domain"

const MonthColumn = "MONTH"

type aggregate string

const (
	aggSum aggregate = "SUM"
	aggAvg aggregate = "AVG"
)

// definition describes how a KPI is computed inside a single port table:
// the aggregate is applied to each column and the results are added together.
type definition struct {
	suffix  string
	agg     aggregate
	columns []string
}

var definitions = map[domain.MetricKind]definition{
	domain.MetricGrossTonnage: {suffix: "vessel_traffic_201a", agg: aggSum, columns: []string{"GRT"}},
	domain.MetricTurnaround:   {suffix: "turn_round_302", agg: aggAvg, columns: []string{"AVG_TURN_ROUND"}},
	domain.MetricWaiting:      {suffix: "turn_round_302", agg: aggAvg, columns: []string{"AVG_AWAITING"}},
	domain.MetricImport:       {suffix: "throughput_trade_211b", agg: aggSum, columns: []string{"INWARD_FOREIGN", "INWARD_DOMESTIC"}},
	domain.MetricExport:       {suffix: "throughput_trade_211b", agg: aggSum, columns: []string{"OUTWARD_FOREIGN", "OUTWARD_DOMESTIC"}},
	domain.MetricDomestic:     {suffix: "throughput_trade_211b", agg: aggSum, columns: []string{"INWARD_DOMESTIC", "OUTWARD_DOMESTIC"}},
}

// accumulator merges per-port values. Ports without data are never added.
type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v float64) {
	a.sum += v
	a.count++
}

func (a *accumulator) result(c domain.Combination) float64 {
	if c == domain.CombineAverage {
		if a.count == 0 {
			return 0
		}
		return a.sum / float64(a.count)
	}
	return a.sum
}
