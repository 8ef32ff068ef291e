package domain

import (
	"fmt"
	"strings"
)

type Month string

const (
	January   Month = "JAN"
	February  Month = "FEB"
	March     Month = "MAR"
	April     Month = "APR"
	May       Month = "MAY"
	June      Month = "JUN"
	July      Month = "JUL"
	August    Month = "AUG"
	September Month = "SEPT"
	October   Month = "OCT"
	November  Month = "NOV"
	December  Month = "DEC"
)

// AllMonthsToken selects the whole year.
const AllMonthsToken = "ALL"

// Months is the twelve-code vocabulary in calendar order, as it appears in the MONTH column of
// uploaded reports.
var Months = []Month{
	January, February, March, April, May, June,
	July, August, September, October, November, December,
}

// MonthIndex returns the calendar position of a month code, or -1 when it is not in the vocabulary.
func MonthIndex(code string) int {
	for i, m := range Months {
		if string(m) == code {
			return i
		}
	}
	return -1
}

// MonthFilter restricts aggregation to a subset of months. The zero value applies no restriction.
type MonthFilter struct {
	codes []Month
}

// ParseMonths builds a filter from month codes. No codes, the ALL token or the complete
// vocabulary all yield an unrestricted filter.
func ParseMonths(raw []string) (MonthFilter, error) {
	seen := make(map[Month]bool, len(raw))
	var codes []Month
	for _, r := range raw {
		code := strings.ToUpper(strings.TrimSpace(r))
		if code == "" {
			continue
		}
		if code == AllMonthsToken {
			return MonthFilter{}, nil
		}
		if MonthIndex(code) < 0 {
			return MonthFilter{}, fmt.Errorf("%w: unknown month %q", ErrInvalidInput, r)
		}
		m := Month(code)
		if !seen[m] {
			seen[m] = true
			codes = append(codes, m)
		}
	}
	if len(codes) == 0 || len(codes) == len(Months) {
		return MonthFilter{}, nil
	}
	return MonthFilter{codes: codes}, nil
}

func (f MonthFilter) IsAll() bool {
	return len(f.codes) == 0
}

// Codes returns the selected month codes in calendar order.
func (f MonthFilter) Codes() []string {
	out := make([]string, 0, len(f.codes))
	for _, m := range Months {
		for _, c := range f.codes {
			if c == m {
				out = append(out, string(m))
			}
		}
	}
	return out
}
