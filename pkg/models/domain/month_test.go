package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonths(t *testing.T) {
	full := make([]string, 0, len(Months))
	for _, m := range Months {
		full = append(full, string(m))
	}

	tests := []struct {
		name    string
		raw     []string
		wantAll bool
		want    []string
	}{
		{"empty", nil, true, []string{}},
		{"all token", []string{"JAN", "ALL"}, true, []string{}},
		{"full vocabulary", full, true, []string{}},
		{"subset in calendar order", []string{"feb", "JAN"}, false, []string{"JAN", "FEB"}},
		{"duplicates collapse", []string{"SEPT", "SEPT", " dec "}, false, []string{"SEPT", "DEC"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseMonths(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAll, f.IsAll())
			assert.Equal(t, tt.want, f.Codes())
		})
	}

	_, err := ParseMonths([]string{"SEP"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMonthIndex(t *testing.T) {
	assert.Equal(t, 0, MonthIndex("JAN"))
	assert.Equal(t, 8, MonthIndex("SEPT"))
	assert.Equal(t, -1, MonthIndex("jan"))
}
