package ingest

import (
	"testing"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/de-tools/port-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalColumn(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Inward (Foreign) Cargo", "INWARD_FOREIGN_CARGO"},
		{"  avg turn round  ", "AVG_TURN_ROUND"},
		{"Berth/Terminal", "BERTH_TERMINAL"},
		{"No. of Vessels", "NO_OF_VESSELS"},
		{"Import & Export", "IMPORT_AND_EXPORT"},
		{"Turn-Round", "TURN_ROUND"},
		{"G.R.T", "GRT"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := CanonicalColumn(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CanonicalColumn(got))
		})
	}
}

func TestNormalize(t *testing.T) {
	frame := Frame{
		Columns: []string{"Month", "Inward Foreign", "Remarks", "Blank"},
		Rows: [][]string{
			{"JAN", "100", "ok", ""},
			{"FEB", "", "12", ""},
			{"MAR", "2.5", "", ""},
		},
	}

	n, err := Normalize(frame)
	require.NoError(t, err)

	assert.Equal(t, []store.ColumnDef{
		{Name: "MONTH", Numeric: false},
		{Name: "INWARD_FOREIGN", Numeric: true},
		{Name: "REMARKS", Numeric: false},
		{Name: "BLANK", Numeric: true},
	}, n.Columns)
	assert.Equal(t, [][]any{
		{"JAN", 100.0, "ok", nil},
		{"FEB", nil, "12", nil},
		{"MAR", 2.5, nil, nil},
	}, n.Rows)
}

func TestNormalize_Collision(t *testing.T) {
	_, err := Normalize(Frame{Columns: []string{"Avg Turn", "AVG_TURN"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Normalize(Frame{Columns: []string{"()"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
