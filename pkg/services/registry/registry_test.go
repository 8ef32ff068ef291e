package registry

import (
	"testing"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	r := New()

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"turnaround apapa", "TABLE 3.02 TURN-ROUND TIME OF SHIPS COMPLETED APAPA.xlsx", "turn_round_302"},
		{"double space preserved", "TABLE 2.01A NO GRT OF VESSELS THAT ENTERED- OCEAN GOING VESSELS -  APAPA.xlsx", "vessel_traffic_201a"},
		{"warri cargo type differs from apapa", "TABLE 2.11A CARGO THROUGHPUT- TYPE OF CARGO (EXCL CRUDE OIL TERMINALS)- WARRI.xlsx", "cargo_type_211a"},
		{"apapa cargo type", "TABLE 2.11A CARGO THROUGHPUT- TYPE OF CARGO (EXCL CRUDE OIL TERMINALS)- APAPA.xlsx", "throughput_type_211a"},
		{"port harcourt", "TABLE 2.32 INWARD CARGO FLOW BY TYPE OF PACKAGING PORT HARCOURT.xlsx", "packaging_inward_232"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Lookup(tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_Lookup_NotFound(t *testing.T) {
	r := New()

	for _, name := range []string{
		"table 3.02 turn-round time of ships completed apapa.xlsx",
		"TABLE 2.01A NO GRT OF VESSELS THAT ENTERED- OCEAN GOING VESSELS - APAPA.xlsx",
		"unknown.xlsx",
		"",
	} {
		_, err := r.Lookup(name)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, name)
	}
}

func TestRegistry_Extra(t *testing.T) {
	r := New(domain.ReportCategory{FileName: "TABLE 3.03 BERTH OCCUPANCY RATE APAPA.xlsx", Suffix: "berth_occupancy_303"})

	got, err := r.Lookup("TABLE 3.03 BERTH OCCUPANCY RATE APAPA.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "berth_occupancy_303", got)

	categories := r.Categories()
	assert.Len(t, categories, len(builtin)+1)
	for i := 1; i < len(categories); i++ {
		assert.Less(t, categories[i-1].FileName, categories[i].FileName)
	}
}
