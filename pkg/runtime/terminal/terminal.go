package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/port-atlas/pkg/runtime/bootstrap"
	"github.com/de-tools/port-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/port-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/port-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	logger     zerolog.Logger
	configPath string
	services   *bootstrap.Services
	cleanup    func()
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Logger zerolog.Logger
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{logger: opts.Logger}
	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	defer cli.close()
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "port-atlas",
		Short:             "Port operations reporting tool",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "",
		"Path to the settings file (PORTOPS_* environment variables also apply)")

	summary := export.NewSummaryReporter(out)
	tables := export.NewReporter(out)
	provider := func() *bootstrap.Services { return cli.services }

	cmd.AddCommand(commands.NewReportsCmd(provider))
	cmd.AddCommand(commands.NewTablesCmd(provider))
	cmd.AddCommand(commands.NewKPICmd(provider, summary))
	cmd.AddCommand(commands.NewDashboardCmd(provider, summary))
	cmd.AddCommand(commands.NewPivotCmd(provider, tables))
	cmd.AddCommand(commands.NewIngestCmd(provider, summary))
	cmd.AddCommand(commands.NewUploadsCmd(provider, tables))

	return cmd
}

// setup loads settings and wires services once, before the selected subcommand runs.
func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(cli.configPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	level, err := zerolog.ParseLevel(settings.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.Log.Level, err)
	}
	logger := cli.logger.Level(level)
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	services, cleanup, err := bootstrap.Build(ctx, settings, bootstrap.Options{AllowLocalSources: true})
	if err != nil {
		return err
	}
	cli.services = services
	cli.cleanup = cleanup
	return nil
}

func (cli *CLI) close() {
	if cli.cleanup != nil {
		cli.cleanup()
		cli.cleanup = nil
	}
}
