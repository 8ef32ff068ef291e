package main

import (
	"fmt"
	"os"

	"github.com/de-tools/port-atlas/pkg/runtime/bootstrap"
	"github.com/de-tools/port-atlas/pkg/server"
	"github.com/de-tools/port-atlas/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the port operations dashboard",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the settings file (PORTOPS_* environment variables also apply)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}

	settings, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	level, err := zerolog.ParseLevel(settings.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.Log.Level, err)
	}
	logger = logger.Level(level)
	ctx := logger.WithContext(cmd.Context())

	services, cleanup, err := bootstrap.Build(ctx, settings, bootstrap.Options{})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer cleanup()

	if cfgPath != "" {
		logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            settings.Server.Addr(),
		ShutdownTimeout: settings.Server.ShutdownTimeout,
		AllowedOrigins:  settings.CORS.AllowedOrigins,
		Dependencies: server.Dependencies{
			Ports:     services.Ports,
			Dashboard: services.Dashboard,
			Registry:  services.Registry,
			Catalog:   services.Catalog,
			Store:     services.Store,
			Pivot:     services.Pivot,
			Entry:     services.Entry,
			Ingester:  services.Ingest,
		},
	})

	return api.Start()
}
