package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/models/store"
	"github.com/de-tools/port-atlas/pkg/services/router"
	"github.com/de-tools/port-atlas/pkg/store/sqlstore"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const PreviewRows = 5

type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	DescribeTable(ctx context.Context, table string) (domain.TableSchema, error)
	TableExists(ctx context.Context, table string) (bool, error)
	CreateTable(ctx context.Context, table string, columns []store.ColumnDef) error
	Append(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	RecordUpload(ctx context.Context, record store.UploadRecord) error
	ListUploads(ctx context.Context, limit int) ([]store.UploadRecord, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

type Registry interface {
	Lookup(filename string) (string, error)
}

type Service struct {
	store    Store
	fetcher  Fetcher
	registry Registry
	ports    []string
	now      func() time.Time
}

func NewService(store Store, fetcher Fetcher, registry Registry, ports []string) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("ingest store is nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("report registry is nil")
	}
	return &Service{
		store:    store,
		fetcher:  fetcher,
		registry: registry,
		ports:    ports,
		now:      time.Now,
	}, nil
}

// ResolveTarget routes a port and report file name to its table. ALL is not a valid upload target.
func (s *Service) ResolveTarget(port, reportFile string) (string, error) {
	scope, err := domain.ParsePortScope(port, s.ports)
	if err != nil {
		return "", err
	}
	if scope.IsAll() {
		return "", fmt.Errorf("%w: select a specific port", domain.ErrInvalidInput)
	}

	suffix, err := s.registry.Lookup(reportFile)
	if err != nil {
		return "", err
	}
	return router.Route(scope.Port(), suffix), nil
}

// Ingest reads a workbook, normalizes its report sheet and appends it to table in one
// transaction, creating the table on first upload. Any failure leaves the store unchanged.
func (s *Service) Ingest(ctx context.Context, workbook io.Reader, table string) (domain.IngestResult, error) {
	logger := zerolog.Ctx(ctx)

	if err := ValidateTableName(table); err != nil {
		return domain.IngestResult{}, err
	}

	frame, err := ReadWorkbook(workbook)
	if err != nil {
		return domain.IngestResult{}, err
	}

	normalized, err := Normalize(frame)
	if err != nil {
		return domain.IngestResult{}, err
	}

	result := domain.IngestResult{
		ID:        uuid.NewString(),
		Table:     table,
		Sheet:     frame.Sheet,
		HeaderRow: frame.HeaderRow,
		Columns:   normalized.ColumnNames(),
		Preview: domain.Dataset{
			Columns: normalized.ColumnNames(),
			Rows:    normalized.Rows[:min(PreviewRows, len(normalized.Rows))],
		},
	}

	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.store.TableExists(ctx, table)
		if err != nil {
			return err
		}

		if exists {
			if err := s.checkColumns(ctx, table, result.Columns); err != nil {
				return err
			}
		} else {
			if err := s.store.CreateTable(ctx, table, normalized.Columns); err != nil {
				return err
			}
			result.Created = true
		}

		written, err := s.store.Append(ctx, table, result.Columns, normalized.Rows)
		if err != nil {
			return err
		}
		result.RowsWritten = written

		return s.store.RecordUpload(ctx, store.UploadRecord{
			ID:          result.ID,
			TableName:   table,
			SheetName:   frame.Sheet,
			HeaderRow:   frame.HeaderRow,
			RowsWritten: written,
			UploadedAt:  s.now().UTC(),
		})
	})
	if err != nil {
		logger.Error().Err(err).Str("table", table).Str("sheet", frame.Sheet).Msg("ingestion failed")
		return domain.IngestResult{}, err
	}

	logger.Info().
		Str("table", table).
		Str("sheet", frame.Sheet).
		Int64("rows", result.RowsWritten).
		Bool("created", result.Created).
		Msg("workbook ingested")

	return result, nil
}

// IngestSource fetches a workbook from a local path or object store URI and ingests it.
func (s *Service) IngestSource(ctx context.Context, uri, table string) (domain.IngestResult, error) {
	if s.fetcher == nil {
		return domain.IngestResult{}, fmt.Errorf("%w: remote sources are not configured", domain.ErrInvalidInput)
	}
	data, err := s.fetcher.Fetch(ctx, uri)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("fetch %s: %w", uri, err)
	}
	return s.Ingest(ctx, bytes.NewReader(data), table)
}

func (s *Service) Uploads(ctx context.Context, limit int) ([]domain.UploadRecord, error) {
	records, err := s.store.ListUploads(ctx, limit)
	if err != nil {
		return nil, err
	}

	uploads := make([]domain.UploadRecord, len(records))
	for i, r := range records {
		uploads[i] = domain.UploadRecord{
			ID:          r.ID,
			Table:       r.TableName,
			Sheet:       r.SheetName,
			HeaderRow:   r.HeaderRow,
			RowsWritten: r.RowsWritten,
			UploadedAt:  r.UploadedAt,
		}
	}
	return uploads, nil
}

func (s *Service) checkColumns(ctx context.Context, table string, columns []string) error {
	schema, err := s.store.DescribeTable(ctx, table)
	if err != nil {
		return err
	}

	var missing []string
	for _, c := range columns {
		if _, ok := schema.Column(c); !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s has no columns %s", domain.ErrSchemaMismatch, table, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateTableName accepts lower-case names made of letters, digits, underscores and spaces.
func ValidateTableName(table string) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("%w: table name is required", domain.ErrInvalidInput)
	}
	if table == sqlstore.UploadLogTable {
		return fmt.Errorf("%w: %s is reserved", domain.ErrInvalidInput, table)
	}
	for _, r := range table {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == ' ':
		default:
			return fmt.Errorf("%w: invalid character %q in table name", domain.ErrInvalidInput, r)
		}
	}
	return nil
}
