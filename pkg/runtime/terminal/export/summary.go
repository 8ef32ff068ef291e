package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/port-atlas/pkg/models/domain"
)

// SummaryReporter outputs dashboards and ingestion results as formatted text.
type SummaryReporter struct {
	writer io.Writer
}

func NewSummaryReporter(writer io.Writer) *SummaryReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &SummaryReporter{writer: writer}
}

var summaryFuncs = template.FuncMap{
	"value": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"opt": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f", *v)
	},
	"cell": func(v any) string {
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	},
	"months": func(f domain.MonthFilter) string {
		if f.IsAll() {
			return domain.AllMonthsToken
		}
		return fmt.Sprint(f.Codes())
	},
}

func (c *SummaryReporter) HandleDashboard(d domain.Dashboard) error {
	tmpl := `
{{.Title}}
Months: {{months .Months}}{{if .Year}}  Year: {{.Year}}{{end}}

{{range .KPIs}}
- {{.Label}}: {{value .Value}}{{if .Unit}} {{.Unit}}{{end}} ({{value .ChangePct}}% vs previous)
{{end}}
=== Trade Balance ===
Import: {{value .Trade.Import}} MT
Export: {{value .Trade.Export}} MT
Domestic: {{value .Trade.Domestic}} MT
{{if .Trend}}
=== Efficiency Trend ===
{{range .Trend}}{{.Month}}: turnaround {{opt .Turnaround}}, waiting {{opt .Waiting}}
{{end}}{{end}}`
	return c.execute(tmpl, d)
}

func (c *SummaryReporter) HandleKPI(k domain.KPI) error {
	tmpl := `{{.Label}}: {{value .Value}}{{if .Unit}} {{.Unit}}{{end}}
`
	return c.execute(tmpl, k)
}

func (c *SummaryReporter) HandleIngest(r domain.IngestResult) error {
	tmpl := `
Ingested {{.RowsWritten}} rows into {{.Table}}{{if .Created}} (created){{end}}
Sheet: {{.Sheet}}  Header row: {{.HeaderRow}}
Columns: {{range $i, $c := .Columns}}{{if $i}}, {{end}}{{$c}}{{end}}
{{range .Preview.Rows}}
  {{range $i, $v := .}}{{if $i}} | {{end}}{{cell $v}}{{end}}{{end}}
`
	return c.execute(tmpl, r)
}

func (c *SummaryReporter) execute(tmpl string, data any) error {
	t, err := template.New("report").Funcs(summaryFuncs).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}
