package dashboard

import (
	"context"
	"net/http"

	"github.com/de-tools/port-atlas/pkg/adapters"
	"github.com/de-tools/port-atlas/pkg/handlers/render"
	"github.com/de-tools/port-atlas/pkg/models/api"
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/go-chi/chi/v5"
)

type Service interface {
	Summary(ctx context.Context, scope domain.PortScope, months domain.MonthFilter, year, previousYear int) (domain.Dashboard, error)
	KPI(ctx context.Context, kind domain.MetricKind, scope domain.PortScope, months domain.MonthFilter, year int) (domain.KPI, error)
	Trend(ctx context.Context, scope domain.PortScope) []domain.TrendPoint
}

type Registry interface {
	Categories() []domain.ReportCategory
}

type Handler struct {
	service  Service
	registry Registry
	ports    []string
}

func NewHandler(service Service, registry Registry, ports []string) *Handler {
	return &Handler{
		service:  service,
		registry: registry,
		ports:    ports,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListPorts(w http.ResponseWriter, r *http.Request) {
	response := make([]api.Port, 0, len(h.ports))
	for _, p := range h.ports {
		response = append(response, api.Port{Name: p})
	}
	render.JSON(w, r, http.StatusOK, response)
}

func (h *Handler) ListMonths(w http.ResponseWriter, r *http.Request) {
	response := make([]string, len(domain.Months))
	for i, m := range domain.Months {
		response[i] = string(m)
	}
	render.JSON(w, r, http.StatusOK, response)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, http.StatusOK, adapters.MapReportCategories(h.registry.Categories()))
}

func (h *Handler) GetKPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := domain.ParseMetricKind(chi.URLParam(r, "metric"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	scope, months, year, err := h.filters(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	kpi, err := h.service.KPI(ctx, kind, scope, months, year)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, adapters.MapKPI(kpi))
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope, months, year, err := h.filters(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	previousYear, err := render.Int(r, "previous_year", 0)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	d, err := h.service.Summary(ctx, scope, months, year, previousYear)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, adapters.MapDashboard(d))
}

func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	scope, err := render.Scope(r, h.ports)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, adapters.MapTrend(h.service.Trend(r.Context(), scope)))
}

func (h *Handler) filters(r *http.Request) (domain.PortScope, domain.MonthFilter, int, error) {
	scope, err := render.Scope(r, h.ports)
	if err != nil {
		return domain.PortScope{}, domain.MonthFilter{}, 0, err
	}
	months, err := render.Months(r)
	if err != nil {
		return domain.PortScope{}, domain.MonthFilter{}, 0, err
	}
	year, err := render.Int(r, "year", 0)
	if err != nil {
		return domain.PortScope{}, domain.MonthFilter{}, 0, err
	}
	return scope, months, year, nil
}
