package commands

import (
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type PivotCmd struct {
	rows     []string
	columns  []string
	value    string
	services Provider
	reporter *export.Reporter
}

func NewPivotCmd(services Provider, reporter *export.Reporter) *cobra.Command {
	pc := &PivotCmd{services: services, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "pivot <table>",
		Short: "Sum a numeric column grouped by row and column fields",
		Args:  cobra.ExactArgs(1),
		RunE:  pc.run,
	}

	cmd.Flags().StringSliceVar(&pc.rows, "rows", nil, "Row fields")
	cmd.Flags().StringSliceVar(&pc.columns, "columns", nil, "Column fields")
	cmd.Flags().StringVar(&pc.value, "value", "", "Numeric value field")

	_ = cmd.MarkFlagRequired("rows")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func (pc *PivotCmd) run(cmd *cobra.Command, args []string) error {
	grid, err := pc.services().Pivot.Pivot(cmd.Context(), domain.PivotSpec{
		Table:   args[0],
		Rows:    pc.rows,
		Columns: pc.columns,
		Value:   pc.value,
	})
	if err != nil {
		return err
	}
	return pc.reporter.HandleGrid(grid)
}
