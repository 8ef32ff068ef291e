package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/port-atlas/pkg/models/domain"
)

type TableConfig struct {
	KeyWidth   int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		KeyWidth:   28,
		ValueWidth: 16,
	}
}

// Reporter renders grids and listings as fixed-width tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) funcs(valueColumns int) template.FuncMap {
	return template.FuncMap{
		"formatRow": func(key string, values []string) string {
			var b strings.Builder
			fmt.Fprintf(&b, "| %-*s |", c.config.KeyWidth, key)
			for _, v := range values {
				fmt.Fprintf(&b, " %*s |", c.config.ValueWidth, v)
			}
			return b.String()
		},
		"separator": func() string {
			var b strings.Builder
			b.WriteString("+" + strings.Repeat("-", c.config.KeyWidth+2) + "+")
			for i := 0; i < valueColumns; i++ {
				b.WriteString(strings.Repeat("-", c.config.ValueWidth+2) + "+")
			}
			return b.String()
		},
	}
}

type gridView struct {
	Title   string
	Header  []string
	KeyName string
	Rows    []gridRow
}

type gridRow struct {
	Key    string
	Values []string
}

// HandleGrid prints a pivot grid: one line per row key, one column per column key.
func (c *Reporter) HandleGrid(grid domain.Grid) error {
	header := make([]string, len(grid.ColumnKeys))
	for i, k := range grid.ColumnKeys {
		header[i] = strings.Join(k, " / ")
		if header[i] == "" {
			header[i] = grid.ValueField
		}
	}

	view := gridView{
		Title:   fmt.Sprintf("SUM(%s) by %s", grid.ValueField, strings.Join(grid.RowFields, ", ")),
		Header:  header,
		KeyName: strings.Join(grid.RowFields, " / "),
	}
	for i, k := range grid.RowKeys {
		values := make([]string, len(grid.Cells[i]))
		for j, v := range grid.Cells[i] {
			values[j] = fmt.Sprintf("%.2f", v)
		}
		view.Rows = append(view.Rows, gridRow{Key: strings.Join(k, " / "), Values: values})
	}

	tmpl := `
{{.Title}}

{{separator}}
{{formatRow .KeyName .Header}}
{{separator}}
{{range .Rows}}{{formatRow .Key .Values}}
{{end}}{{separator}}
`
	return c.execute(tmpl, len(header), view)
}

// HandleUploads prints the upload history, newest first.
func (c *Reporter) HandleUploads(uploads []domain.UploadRecord) error {
	view := gridView{
		Title:   fmt.Sprintf("Uploads (%d)", len(uploads)),
		Header:  []string{"Sheet", "Rows", "Uploaded"},
		KeyName: "Table",
	}
	for _, u := range uploads {
		view.Rows = append(view.Rows, gridRow{
			Key: u.Table,
			Values: []string{
				u.Sheet,
				fmt.Sprintf("%d", u.RowsWritten),
				u.UploadedAt.Format("2006-01-02 15:04"),
			},
		})
	}

	tmpl := `
{{.Title}}

{{separator}}
{{formatRow .KeyName .Header}}
{{separator}}
{{range .Rows}}{{formatRow .Key .Values}}
{{end}}{{separator}}
`
	return c.execute(tmpl, len(view.Header), view)
}

func (c *Reporter) execute(tmpl string, valueColumns int, data any) error {
	t, err := template.New("report").Funcs(c.funcs(valueColumns)).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}
