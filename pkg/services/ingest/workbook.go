package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const (
	combinedMarker = "COMBINED"
	unnamedPrefix  = "Unnamed"
)

// Frame is a sheet read into named columns of raw cell text.
type Frame struct {
	Sheet     string
	HeaderRow int
	Columns   []string
	Rows      [][]string
}

// SelectSheet picks the first sheet whose name contains COMBINED (any case),
// falling back to the first sheet.
func SelectSheet(names []string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", domain.ErrInvalidInput)
	}
	for _, n := range names {
		if strings.Contains(strings.ToUpper(n), combinedMarker) {
			return n, nil
		}
	}
	return names[0], nil
}

// ReadWorkbook opens an xlsx workbook, selects the report sheet and parses it into a frame.
// When the first header cell is blank the header is taken from the second row instead.
func ReadWorkbook(r io.Reader) (Frame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: open workbook: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheet, err := SelectSheet(f.GetSheetList())
	if err != nil {
		return Frame{}, err
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Frame{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	frame := parseFrame(sheet, rows, 0)
	if len(frame.Columns) > 0 && strings.Contains(frame.Columns[0], unnamedPrefix) {
		frame = parseFrame(sheet, rows, 1)
	}
	if len(frame.Columns) == 0 {
		return Frame{}, fmt.Errorf("%w: sheet %q has no header", domain.ErrInvalidInput, sheet)
	}
	return frame, nil
}

func parseFrame(sheet string, rows [][]string, headerRow int) Frame {
	frame := Frame{Sheet: sheet, HeaderRow: headerRow}
	if headerRow >= len(rows) {
		return frame
	}

	body := rows[headerRow+1:]
	width := len(rows[headerRow])
	for _, r := range body {
		width = max(width, len(r))
	}

	frame.Columns = headerNames(rows[headerRow], width)
	for _, r := range body {
		if isBlank(r) {
			continue
		}
		row := make([]string, width)
		copy(row, r)
		frame.Rows = append(frame.Rows, row)
	}
	return frame
}

// headerNames labels blank header cells "Unnamed: <index>" and suffixes repeated
// names with ".1", ".2" and so on.
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	counts := map[string]int{}
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("%s: %d", unnamedPrefix, i)
		}
		if n := counts[name]; n > 0 {
			counts[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			counts[name] = 1
		}
		names[i] = name
	}
	return names
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
