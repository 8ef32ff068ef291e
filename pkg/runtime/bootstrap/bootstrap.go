package bootstrap

import (
	"context"
	"fmt"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/services/config"
	"github.com/de-tools/port-atlas/pkg/services/dashboard"
	"github.com/de-tools/port-atlas/pkg/services/entry"
	"github.com/de-tools/port-atlas/pkg/services/ingest"
	"github.com/de-tools/port-atlas/pkg/services/metrics"
	"github.com/de-tools/port-atlas/pkg/services/pivot"
	"github.com/de-tools/port-atlas/pkg/services/registry"
	"github.com/de-tools/port-atlas/pkg/services/router"
	"github.com/de-tools/port-atlas/pkg/store/client"
	"github.com/de-tools/port-atlas/pkg/store/objects"
	"github.com/de-tools/port-atlas/pkg/store/sqlstore"
	"github.com/rs/zerolog"
)

// Services is the wired application graph shared by the web server and the CLI.
type Services struct {
	Ports      []string
	Store      *sqlstore.Store
	Registry   *registry.Registry
	Catalog    *router.Catalog
	Aggregator *metrics.Aggregator
	Pivot      *pivot.Engine
	Dashboard  *dashboard.Service
	Entry      *entry.Service
	Ingest     *ingest.Service
}

type Options struct {
	// AllowLocalSources lets ingestion read plain file paths. Only the CLI enables it.
	AllowLocalSources bool
}

// Build connects to the configured store and wires every service on top of it.
// The returned cleanup closes the store connection.
func Build(ctx context.Context, settings config.Settings, opts Options) (*Services, func(), error) {
	logger := zerolog.Ctx(ctx)

	var profiles config.ProfileRegistry
	if settings.Store.ProfilesPath != "" {
		p, err := config.NewProfileRegistry(settings.Store.ProfilesPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load store profiles: %w", err)
		}
		profiles = p
	}

	db, d, err := client.Open(ctx, client.Settings{
		Driver:       settings.Store.Driver,
		DSN:          settings.Store.DSN,
		Profile:      settings.Store.Profile,
		MaxOpenConns: settings.Store.MaxOpenConns,
	}, profiles)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close store")
		}
	}

	store, err := sqlstore.NewStore(db, d)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create store: %w", err)
	}
	if err := store.Init(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	extra := make([]domain.ReportCategory, 0, len(settings.Reports))
	for _, r := range settings.Reports {
		extra = append(extra, domain.ReportCategory{FileName: r.File, Suffix: r.Suffix})
	}
	reports := registry.New(extra...)

	aggregator := metrics.NewAggregator(store, settings.Ports)

	fetcher := objects.NewFetcher(objects.Settings{
		AWSProfile:      settings.Objects.AWSProfile,
		AWSRegion:       settings.Objects.AWSRegion,
		AzureAccountURL: settings.Objects.AzureAccountURL,
		AllowLocal:      opts.AllowLocalSources,
	})
	ingestService, err := ingest.NewService(store, fetcher, reports, settings.Ports)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	logger.Info().
		Strs("ports", settings.Ports).
		Int("reports", len(reports.Categories())).
		Msg("services ready")

	return &Services{
		Ports:      settings.Ports,
		Store:      store,
		Registry:   reports,
		Catalog:    router.NewCatalog(store, settings.Ports),
		Aggregator: aggregator,
		Pivot:      pivot.NewEngine(store),
		Dashboard:  dashboard.NewService(aggregator, store),
		Entry:      entry.NewService(store, reports, settings.Ports),
		Ingest:     ingestService,
	}, cleanup, nil
}
