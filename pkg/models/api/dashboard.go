package api

type Port struct {
	Name string `json:"name"`
}

type ReportCategory struct {
	FileName string `json:"file_name"`
	Suffix   string `json:"suffix"`
}

type KPI struct {
	Metric        string  `json:"metric"`
	Label         string  `json:"label"`
	Unit          string  `json:"unit"`
	Value         float64 `json:"value"`
	Previous      float64 `json:"previous"`
	ChangePct     float64 `json:"change_pct"`
	LowerIsBetter bool    `json:"lower_is_better"`
}

type MetricValue struct {
	Metric string   `json:"metric"`
	Port   string   `json:"port"`
	Months []string `json:"months"`
	Year   int      `json:"year,omitempty"`
	Value  float64  `json:"value"`
}

type TradeBalance struct {
	Import   float64 `json:"import"`
	Export   float64 `json:"export"`
	Domestic float64 `json:"domestic"`
}

type TrendPoint struct {
	Month      string   `json:"month"`
	Turnaround *float64 `json:"turnaround"`
	Waiting    *float64 `json:"waiting"`
}

type Dashboard struct {
	Title        string       `json:"title"`
	Port         string       `json:"port"`
	Months       []string     `json:"months"`
	Year         int          `json:"year,omitempty"`
	PreviousYear int          `json:"previous_year,omitempty"`
	KPIs         []KPI        `json:"kpis"`
	Trade        TradeBalance `json:"trade"`
	Trend        []TrendPoint `json:"trend"`
}
