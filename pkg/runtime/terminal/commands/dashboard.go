package commands

import (
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type filterFlags struct {
	port   string
	months []string
	year   int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.port, "port", domain.AllPorts, "Port to report on, or ALL")
	cmd.Flags().StringSliceVar(&f.months, "months", nil, "Months to include (e.g. JAN,FEB); empty means all")
	cmd.Flags().IntVar(&f.year, "year", 0, "Reporting year")
}

func (f *filterFlags) parse(ports []string) (domain.PortScope, domain.MonthFilter, error) {
	scope, err := domain.ParsePortScope(f.port, ports)
	if err != nil {
		return domain.PortScope{}, domain.MonthFilter{}, err
	}
	months, err := domain.ParseMonths(f.months)
	if err != nil {
		return domain.PortScope{}, domain.MonthFilter{}, err
	}
	return scope, months, nil
}

type KPICmd struct {
	filterFlags
	services Provider
	reporter *export.SummaryReporter
}

func NewKPICmd(services Provider, reporter *export.SummaryReporter) *cobra.Command {
	kc := &KPICmd{services: services, reporter: reporter}
	cmd := &cobra.Command{
		Use:       "kpi <metric>",
		Short:     "Compute a single KPI",
		Args:      cobra.ExactArgs(1),
		ValidArgs: metricNames(),
		RunE:      kc.run,
	}
	kc.register(cmd)
	return cmd
}

func (kc *KPICmd) run(cmd *cobra.Command, args []string) error {
	s := kc.services()

	kind, err := domain.ParseMetricKind(args[0])
	if err != nil {
		return err
	}
	scope, months, err := kc.parse(s.Ports)
	if err != nil {
		return err
	}

	kpi, err := s.Dashboard.KPI(cmd.Context(), kind, scope, months, kc.year)
	if err != nil {
		return err
	}
	return kc.reporter.HandleKPI(kpi)
}

type DashboardCmd struct {
	filterFlags
	previousYear int
	services     Provider
	reporter     *export.SummaryReporter
}

func NewDashboardCmd(services Provider, reporter *export.SummaryReporter) *cobra.Command {
	dc := &DashboardCmd{services: services, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the operations dashboard for a port",
		RunE:  dc.run,
	}
	dc.register(cmd)
	cmd.Flags().IntVar(&dc.previousYear, "previous-year", 0, "Comparison year (defaults to year-1)")
	return cmd
}

func (dc *DashboardCmd) run(cmd *cobra.Command, args []string) error {
	s := dc.services()

	scope, months, err := dc.parse(s.Ports)
	if err != nil {
		return err
	}

	d, err := s.Dashboard.Summary(cmd.Context(), scope, months, dc.year, dc.previousYear)
	if err != nil {
		return err
	}
	return dc.reporter.HandleDashboard(d)
}

func metricNames() []string {
	names := make([]string, len(domain.MetricKinds))
	for i, k := range domain.MetricKinds {
		names[i] = string(k)
	}
	return names
}
