package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/de-tools/port-atlas/pkg/handlers/dashboard"
	"github.com/de-tools/port-atlas/pkg/handlers/explorer"
	"github.com/de-tools/port-atlas/pkg/handlers/upload"
	portmiddleware "github.com/de-tools/port-atlas/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Ports     []string
	Dashboard dashboard.Service
	Registry  dashboard.Registry
	Catalog   explorer.Catalog
	Store     explorer.Store
	Pivot     explorer.Pivoter
	Entry     explorer.Entry
	Ingester  upload.Ingester
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(&logger, config)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func ConfigureRouter(logger *zerolog.Logger, config Config) *chi.Mux {
	deps := config.Dependencies
	dashboardHandler := dashboard.NewHandler(deps.Dashboard, deps.Registry, deps.Ports)
	explorerHandler := explorer.NewHandler(deps.Catalog, deps.Store, deps.Pivot, deps.Entry, deps.Ports)
	uploadHandler := upload.NewHandler(deps.Ingester)

	router := chi.NewRouter()

	router.Use(portmiddleware.Logger(logger))
	router.Use(middleware.Recoverer)
	if len(config.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: config.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", dashboardHandler.Health)
		r.Get("/ports", dashboardHandler.ListPorts)
		r.Get("/months", dashboardHandler.ListMonths)
		r.Get("/reports", dashboardHandler.ListReports)
		r.Get("/kpis/{metric}", dashboardHandler.GetKPI)
		r.Get("/dashboard", dashboardHandler.GetDashboard)
		r.Get("/trends", dashboardHandler.GetTrend)

		r.Get("/tables", explorerHandler.ListTables)
		r.Route("/tables/{table}", func(r chi.Router) {
			r.Get("/columns", explorerHandler.DescribeTable)
			r.Get("/columns/{column}/values", explorerHandler.DistinctValues)
			r.Get("/rows", explorerHandler.GetRows)
			r.Post("/pivot", explorerHandler.Pivot)
			r.Post("/records", explorerHandler.SaveRecord)
		})
		r.Get("/entry/form", explorerHandler.EntryForm)

		r.Get("/uploads", uploadHandler.ListUploads)
		r.Post("/uploads", uploadHandler.Upload)
		r.Post("/uploads/remote", uploadHandler.UploadRemote)
	})

	return router
}

func (w *WebAPI) Router() http.Handler {
	return w.router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
