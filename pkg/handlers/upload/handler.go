package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/de-tools/port-atlas/pkg/adapters"
	"github.com/de-tools/port-atlas/pkg/handlers/render"
	"github.com/de-tools/port-atlas/pkg/models/api"
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	maxUploadSize      = 32 << 20
	defaultUploadLimit = 50
)

type Ingester interface {
	Ingest(ctx context.Context, workbook io.Reader, table string) (domain.IngestResult, error)
	IngestSource(ctx context.Context, uri, table string) (domain.IngestResult, error)
	ResolveTarget(port, reportFile string) (string, error)
	Uploads(ctx context.Context, limit int) ([]domain.UploadRecord, error)
}

type Handler struct {
	ingester Ingester
}

func NewHandler(ingester Ingester) *Handler {
	return &Handler{ingester: ingester}
}

// Upload accepts a multipart workbook in the "file" field. The target table is either
// given directly or routed from the port and report name, which defaults to the file name.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.Error(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Error(w, r, fmt.Errorf("%w: file is required", domain.ErrInvalidInput))
		return
	}
	defer file.Close()

	report := r.FormValue("report")
	if report == "" {
		report = filepath.Base(header.Filename)
	}
	table, err := h.target(r.FormValue("table"), r.FormValue("port"), report)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	logger.Info().Str("file", header.Filename).Str("table", table).Int64("size", header.Size).Msg("workbook received")

	result, err := h.ingester.Ingest(ctx, file, table)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusCreated, adapters.MapIngestResult(result))
}

func (h *Handler) UploadRemote(w http.ResponseWriter, r *http.Request) {
	var req api.RemoteUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	if req.Source == "" {
		render.Error(w, r, fmt.Errorf("%w: source is required", domain.ErrInvalidInput))
		return
	}

	report := req.Report
	if report == "" {
		report = filepath.Base(req.Source)
	}
	table, err := h.target(req.Table, req.Port, report)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	result, err := h.ingester.IngestSource(r.Context(), req.Source, table)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusCreated, adapters.MapIngestResult(result))
}

func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	limit, err := render.Int(r, "limit", defaultUploadLimit)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	uploads, err := h.ingester.Uploads(r.Context(), limit)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, adapters.MapUploads(uploads))
}

func (h *Handler) target(table, port, report string) (string, error) {
	if table != "" {
		return table, nil
	}
	return h.ingester.ResolveTarget(port, report)
}
