package commands

import (
	"fmt"
	"path/filepath"

	"github.com/de-tools/port-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type IngestCmd struct {
	table    string
	port     string
	report   string
	services Provider
	reporter *export.SummaryReporter
}

func NewIngestCmd(services Provider, reporter *export.SummaryReporter) *cobra.Command {
	ic := &IngestCmd{services: services, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "ingest <path|s3://bucket/key|az://container/blob>",
		Short: "Load a report workbook into its port table",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.table, "table", "", "Target table; overrides --port and --report")
	cmd.Flags().StringVar(&ic.port, "port", "", "Port the workbook belongs to")
	cmd.Flags().StringVar(&ic.report, "report", "", "Report file name (defaults to the source file name)")

	return cmd
}

func (ic *IngestCmd) run(cmd *cobra.Command, args []string) error {
	s := ic.services()
	source := args[0]

	table := ic.table
	if table == "" {
		if ic.port == "" {
			return fmt.Errorf("either --table or --port is required")
		}
		report := ic.report
		if report == "" {
			report = filepath.Base(source)
		}
		t, err := s.Ingest.ResolveTarget(ic.port, report)
		if err != nil {
			return err
		}
		table = t
	}

	result, err := s.Ingest.IngestSource(cmd.Context(), source, table)
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", source, err)
	}
	return ic.reporter.HandleIngest(result)
}

type UploadsCmd struct {
	limit    int
	services Provider
	reporter *export.Reporter
}

func NewUploadsCmd(services Provider, reporter *export.Reporter) *cobra.Command {
	uc := &UploadsCmd{services: services, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "Show recent workbook uploads",
		RunE:  uc.run,
	}

	cmd.Flags().IntVar(&uc.limit, "limit", 20, "Number of uploads to show")

	return cmd
}

func (uc *UploadsCmd) run(cmd *cobra.Command, args []string) error {
	uploads, err := uc.services().Ingest.Uploads(cmd.Context(), uc.limit)
	if err != nil {
		return err
	}
	return uc.reporter.HandleUploads(uploads)
}
