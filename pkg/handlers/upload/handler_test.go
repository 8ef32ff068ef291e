package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/port-atlas/pkg/models/api"
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockIngester struct {
	mock.Mock
}

func (m *mockIngester) Ingest(ctx context.Context, workbook io.Reader, table string) (domain.IngestResult, error) {
	args := m.Called(ctx, workbook, table)
	return args.Get(0).(domain.IngestResult), args.Error(1)
}

func (m *mockIngester) IngestSource(ctx context.Context, uri, table string) (domain.IngestResult, error) {
	args := m.Called(ctx, uri, table)
	return args.Get(0).(domain.IngestResult), args.Error(1)
}

func (m *mockIngester) ResolveTarget(port, reportFile string) (string, error) {
	args := m.Called(port, reportFile)
	return args.String(0), args.Error(1)
}

func (m *mockIngester) Uploads(ctx context.Context, limit int) ([]domain.UploadRecord, error) {
	args := m.Called(ctx, limit)
	records, _ := args.Get(0).([]domain.UploadRecord)
	return records, args.Error(1)
}

const reportFile = "TABLE 3.02 TURN-ROUND TIME OF SHIPS COMPLETED WARRI.xlsx"

func multipartRequest(t *testing.T, fields map[string]string, withFile bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if withFile {
		part, err := writer.CreateFormFile("file", reportFile)
		require.NoError(t, err)
		_, err = part.Write([]byte("workbook"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandler_Upload(t *testing.T) {
	result := domain.IngestResult{
		ID:          "upload-1",
		Table:       "warri_turn_round_302",
		Sheet:       "COMBINED",
		Columns:     []string{"MONTH", "AVG_TURN_ROUND"},
		RowsWritten: 12,
		Created:     true,
	}

	tests := []struct {
		name           string
		fields         map[string]string
		withFile       bool
		setupMock      func(*mockIngester)
		expectedStatus int
	}{
		{
			name:     "routes by port and file name",
			fields:   map[string]string{"port": "WARRI"},
			withFile: true,
			setupMock: func(m *mockIngester) {
				m.On("ResolveTarget", "WARRI", reportFile).Return("warri_turn_round_302", nil)
				m.On("Ingest", mock.Anything, mock.Anything, "warri_turn_round_302").Return(result, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:     "explicit table",
			fields:   map[string]string{"table": "warri_turn_round_302"},
			withFile: true,
			setupMock: func(m *mockIngester) {
				m.On("Ingest", mock.Anything, mock.Anything, "warri_turn_round_302").Return(result, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing file",
			fields:         map[string]string{"port": "WARRI"},
			setupMock:      func(m *mockIngester) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:     "unknown report",
			fields:   map[string]string{"port": "WARRI", "report": "notes.xlsx"},
			withFile: true,
			setupMock: func(m *mockIngester) {
				m.On("ResolveTarget", "WARRI", "notes.xlsx").Return("", fmt.Errorf("%w: notes.xlsx", domain.ErrReportNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:     "schema mismatch",
			fields:   map[string]string{"table": "warri_turn_round_302"},
			withFile: true,
			setupMock: func(m *mockIngester) {
				m.On("Ingest", mock.Anything, mock.Anything, "warri_turn_round_302").
					Return(domain.IngestResult{}, fmt.Errorf("%w: missing BERTH", domain.ErrSchemaMismatch))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			ingester := new(mockIngester)
			tt.setupMock(ingester)
			handler := NewHandler(ingester)

			// When
			rec := httptest.NewRecorder()
			handler.Upload(rec, multipartRequest(t, tt.fields, tt.withFile))

			// Then
			assert.Equal(t, tt.expectedStatus, rec.Code)
			ingester.AssertExpectations(t)
			if tt.expectedStatus == http.StatusCreated {
				var got api.IngestResult
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, int64(12), got.RowsWritten)
				assert.True(t, got.Created)
			}
		})
	}
}

func TestHandler_UploadRemote(t *testing.T) {
	t.Run("routes by source name", func(t *testing.T) {
		ingester := new(mockIngester)
		ingester.On("ResolveTarget", "ONNE", "TABLE 1.01 GRT ONNE.xlsx").Return("onne_grt", nil)
		ingester.On("IngestSource", mock.Anything, "s3://reports/2024/TABLE 1.01 GRT ONNE.xlsx", "onne_grt").
			Return(domain.IngestResult{Table: "onne_grt", RowsWritten: 3}, nil)

		body := `{"source":"s3://reports/2024/TABLE 1.01 GRT ONNE.xlsx","port":"ONNE"}`
		rec := httptest.NewRecorder()
		NewHandler(ingester).UploadRemote(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		ingester.AssertExpectations(t)
	})

	t.Run("source required", func(t *testing.T) {
		ingester := new(mockIngester)

		rec := httptest.NewRecorder()
		NewHandler(ingester).UploadRemote(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"port":"ONNE"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_ListUploads(t *testing.T) {
	uploadedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ingester := new(mockIngester)
	ingester.On("Uploads", mock.Anything, 10).Return([]domain.UploadRecord{
		{ID: "u1", Table: "apapa_grt", Sheet: "COMBINED", RowsWritten: 12, UploadedAt: uploadedAt},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(ingester).ListUploads(rec, httptest.NewRequest(http.MethodGet, "/api/v1/uploads?limit=10", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []api.Upload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "apapa_grt", got[0].Table)
	assert.True(t, uploadedAt.Equal(got[0].UploadedAt))
}
