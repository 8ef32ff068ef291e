package router

import (
	"context"
	"errors"
	"testing"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) ListTables(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tables, _ := args.Get(0).([]string)
	return tables, args.Error(1)
}

func TestRoute(t *testing.T) {
	tests := []struct {
		port   string
		suffix string
		want   string
	}{
		{"Warri", "turn_round_302", "warri_turn_round_302"},
		{"APAPA", "throughput_trade_211b", "apapa_throughput_trade_211b"},
		{"TIN CAN", "vessel_traffic_201a", "tin can_vessel_traffic_201a"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(tt.port, tt.suffix))
		})
	}
}

func TestCatalog_ListTables(t *testing.T) {
	ctx := context.Background()
	all := []string{"warri_turn_round_302", "apapa_turn_round_302", "apapa_vessel_traffic_201a", "onne_berth_occupancy_303"}

	t.Run("all ports returns every table sorted", func(t *testing.T) {
		lister := new(mockLister)
		lister.On("ListTables", ctx).Return(all, nil)

		got := NewCatalog(lister, domain.DefaultPorts).ListTables(ctx, domain.AllPortsScope())
		assert.Equal(t, []string{"apapa_turn_round_302", "apapa_vessel_traffic_201a", "onne_berth_occupancy_303", "warri_turn_round_302"}, got)
		lister.AssertExpectations(t)
	})

	t.Run("single port filters by substring", func(t *testing.T) {
		lister := new(mockLister)
		lister.On("ListTables", ctx).Return(all, nil)

		got := NewCatalog(lister, domain.DefaultPorts).ListTables(ctx, domain.SinglePort("Apapa"))
		assert.Equal(t, []string{"apapa_turn_round_302", "apapa_vessel_traffic_201a"}, got)
	})

	t.Run("catalog failure yields empty list", func(t *testing.T) {
		lister := new(mockLister)
		lister.On("ListTables", ctx).Return(nil, errors.New("connection refused"))

		c := NewCatalog(lister, domain.DefaultPorts)
		assert.Empty(t, c.ListTables(ctx, domain.AllPortsScope()))
		assert.False(t, c.HasTable(ctx, "apapa_turn_round_302"))
	})

	t.Run("has table", func(t *testing.T) {
		lister := new(mockLister)
		lister.On("ListTables", ctx).Return(all, nil)

		c := NewCatalog(lister, domain.DefaultPorts)
		assert.True(t, c.HasTable(ctx, "onne_berth_occupancy_303"))
		assert.False(t, c.HasTable(ctx, "onne"))
	})
}
