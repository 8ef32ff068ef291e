package domain

import (
	"fmt"
	"strings"
)

type MetricKind string

const (
	MetricGrossTonnage MetricKind = "grt"
	MetricTurnaround   MetricKind = "turnaround"
	MetricWaiting      MetricKind = "waiting"
	MetricImport       MetricKind = "import"
	MetricExport       MetricKind = "export"
	MetricDomestic     MetricKind = "domestic"
)

var MetricKinds = []MetricKind{
	MetricGrossTonnage, MetricTurnaround, MetricWaiting,
	MetricImport, MetricExport, MetricDomestic,
}

// Combination decides how per-port values are merged across ports.
type Combination int

const (
	CombineSum Combination = iota
	CombineAverage
)

func ParseMetricKind(raw string) (MetricKind, error) {
	kind := MetricKind(strings.ToLower(strings.TrimSpace(raw)))
	for _, k := range MetricKinds {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown metric %q", ErrInvalidInput, raw)
}

func (k MetricKind) Combination() Combination {
	switch k {
	case MetricTurnaround, MetricWaiting:
		return CombineAverage
	default:
		return CombineSum
	}
}

// MetricQuery is a request for one aggregated KPI value.
// Year is accepted for historical comparison but is not applied as a filter.
type MetricQuery struct {
	Kind   MetricKind
	Scope  PortScope
	Months MonthFilter
	Year   int
}
