package adapters

import (
	"github.com/de-tools/port-atlas/pkg/models/api"
	"github.com/de-tools/port-atlas/pkg/models/domain"
)

func MapIngestResult(r domain.IngestResult) api.IngestResult {
	return api.IngestResult{
		ID:          r.ID,
		Table:       r.Table,
		Sheet:       r.Sheet,
		HeaderRow:   r.HeaderRow,
		Columns:     r.Columns,
		RowsWritten: r.RowsWritten,
		Created:     r.Created,
		Preview:     MapDataset(r.Preview),
	}
}

func MapUploads(records []domain.UploadRecord) []api.Upload {
	out := make([]api.Upload, len(records))
	for i, r := range records {
		out[i] = api.Upload{
			ID:          r.ID,
			Table:       r.Table,
			Sheet:       r.Sheet,
			HeaderRow:   r.HeaderRow,
			RowsWritten: r.RowsWritten,
			UploadedAt:  r.UploadedAt,
		}
	}
	return out
}
