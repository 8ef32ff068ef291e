package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/de-tools/port-atlas/pkg/adapters"
	"github.com/de-tools/port-atlas/pkg/handlers/render"
	"github.com/de-tools/port-atlas/pkg/models/api"
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultRowLimit = 1000
	maxRowLimit     = 50000
)

type Catalog interface {
	ListTables(ctx context.Context, scope domain.PortScope) []string
	HasTable(ctx context.Context, table string) bool
}

type Store interface {
	DescribeTable(ctx context.Context, table string) (domain.TableSchema, error)
	Rows(ctx context.Context, table string, limit int) (domain.Dataset, error)
	Distinct(ctx context.Context, table, column string) ([]string, error)
}

type Pivoter interface {
	Pivot(ctx context.Context, spec domain.PivotSpec) (domain.Grid, error)
}

type Entry interface {
	Form(ctx context.Context, port, reportFile string) (domain.RecordForm, error)
	Save(ctx context.Context, table string, values map[string]any) error
}

type Handler struct {
	catalog Catalog
	store   Store
	pivot   Pivoter
	entry   Entry
	ports   []string
}

func NewHandler(catalog Catalog, store Store, pivot Pivoter, entry Entry, ports []string) *Handler {
	return &Handler{
		catalog: catalog,
		store:   store,
		pivot:   pivot,
		entry:   entry,
		ports:   ports,
	}
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	scope, err := render.Scope(r, h.ports)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, h.catalog.ListTables(r.Context(), scope))
}

func (h *Handler) DescribeTable(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}

	schema, err := h.store.DescribeTable(r.Context(), table)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, adapters.MapTableSchema(schema))
}

func (h *Handler) GetRows(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}

	limit, err := render.Int(r, "limit", defaultRowLimit)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if limit == 0 || limit > maxRowLimit {
		limit = maxRowLimit
	}

	ds, err := h.store.Rows(r.Context(), table, limit)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, adapters.MapDataset(ds))
}

// DistinctValues lists the values of a column. Lookup failures produce an empty list.
func (h *Handler) DistinctValues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	table, ok := h.table(w, r)
	if !ok {
		return
	}
	column := chi.URLParam(r, "column")

	schema, err := h.store.DescribeTable(ctx, table)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if _, ok := schema.Column(column); !ok {
		render.Error(w, r, fmt.Errorf("%w: column %q not in %s", domain.ErrInvalidInput, column, table))
		return
	}

	values, err := h.store.Distinct(ctx, table, column)
	if err != nil {
		logger.Warn().Err(err).Str("table", table).Str("column", column).Msg("failed to load distinct values")
		values = []string{}
	}
	render.JSON(w, r, http.StatusOK, values)
}

func (h *Handler) Pivot(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}

	var req api.PivotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	grid, err := h.pivot.Pivot(r.Context(), adapters.MapPivotRequest(table, req))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, adapters.MapGrid(grid))
}

func (h *Handler) EntryForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	form, err := h.entry.Form(r.Context(), q.Get("port"), q.Get("report"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, adapters.MapRecordForm(form))
}

func (h *Handler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}

	var req api.RecordRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		render.Error(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	if err := h.entry.Save(r.Context(), table, req.Values); err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusCreated, map[string]string{"table": table})
}

// table resolves the {table} URL parameter against the live catalog.
func (h *Handler) table(w http.ResponseWriter, r *http.Request) (string, bool) {
	table := chi.URLParam(r, "table")
	if !h.catalog.HasTable(r.Context(), table) {
		render.Error(w, r, fmt.Errorf("%w: %s", domain.ErrTableNotFound, table))
		return "", false
	}
	return table, true
}
