package commands

import (
	"fmt"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/spf13/cobra"
)

func NewReportsCmd(services Provider) *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List known report files and their table suffixes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range services().Registry.Categories() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", c.Suffix, c.FileName)
			}
			return nil
		},
	}
}

type TablesCmd struct {
	port     string
	services Provider
}

func NewTablesCmd(services Provider) *cobra.Command {
	tc := &TablesCmd{services: services}
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List report tables stored for a port",
		RunE:  tc.run,
	}

	cmd.Flags().StringVar(&tc.port, "port", domain.AllPorts, "Port to list tables for, or ALL")

	return cmd
}

func (tc *TablesCmd) run(cmd *cobra.Command, args []string) error {
	s := tc.services()

	scope, err := domain.ParsePortScope(tc.port, s.Ports)
	if err != nil {
		return err
	}

	tables := s.Catalog.ListTables(cmd.Context(), scope)
	if len(tables) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No tables found for port: %s\n", scope)
		return nil
	}
	for _, t := range tables {
		fmt.Fprintln(cmd.OutOrStdout(), t)
	}
	return nil
}
