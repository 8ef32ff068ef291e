package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetricKind(t *testing.T) {
	k, err := ParseMetricKind(" GRT ")
	require.NoError(t, err)
	assert.Equal(t, MetricGrossTonnage, k)

	_, err = ParseMetricKind("berth")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMetricKind_Combination(t *testing.T) {
	for _, k := range MetricKinds {
		want := CombineSum
		if k == MetricTurnaround || k == MetricWaiting {
			want = CombineAverage
		}
		assert.Equal(t, want, k.Combination(), string(k))
	}
}
