package bootstrap

import (
	"context"
	"testing"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteSettings() config.Settings {
	return config.Settings{
		Store: config.StoreSettings{Driver: "sqlite", DSN: ":memory:"},
		Ports: domain.DefaultPorts,
		Reports: []config.ReportMapping{
			{File: "TABLE 3.02 TURN-ROUND TIME OF SHIPS COMPLETED ONNE.xlsx", Suffix: "turn_round_302"},
		},
	}
}

func TestBuild(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	services, cleanup, err := Build(ctx, sqliteSettings(), Options{})
	require.NoError(t, err)
	t.Cleanup(cleanup)

	t.Run("upload log is created", func(t *testing.T) {
		exists, err := services.Store.TableExists(ctx, "report_uploads")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("extra report mappings are registered", func(t *testing.T) {
		table, err := services.Ingest.ResolveTarget("ONNE", "TABLE 3.02 TURN-ROUND TIME OF SHIPS COMPLETED ONNE.xlsx")
		require.NoError(t, err)
		assert.Equal(t, "onne_turn_round_302", table)
	})

	t.Run("empty store yields zero metrics", func(t *testing.T) {
		value, err := services.Aggregator.Aggregate(ctx, domain.MetricQuery{
			Kind:  domain.MetricGrossTonnage,
			Scope: domain.AllPortsScope(),
		})
		require.NoError(t, err)
		assert.Zero(t, value)
		assert.Empty(t, services.Catalog.ListTables(ctx, domain.AllPortsScope()))
	})
}

func TestBuild_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown driver", func(t *testing.T) {
		settings := sqliteSettings()
		settings.Store.Driver = "oracle"

		_, _, err := Build(ctx, settings, Options{})
		assert.Error(t, err)
	})

	t.Run("missing profiles file", func(t *testing.T) {
		settings := sqliteSettings()
		settings.Store.ProfilesPath = t.TempDir() + "/missing.ini"
		settings.Store.Profile = "warehouse"

		_, _, err := Build(ctx, settings, Options{})
		assert.Error(t, err)
	})
}
