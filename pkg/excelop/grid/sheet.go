package grid

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is a 1-indexed view of one worksheet. Row 1 is the header row.
type Sheet struct {
	file *excelize.File
	name string
}

// Name returns the worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Cell returns the cell content at the 1-based position. A cell holding a
// formula is returned as its "="-prefixed text; plain cells return their
// value as stored. Out-of-range positions read as empty.
func (s *Sheet) Cell(row, col int) string {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	if f, err := s.file.GetCellFormula(s.name, ref); err == nil && f != "" {
		if strings.HasPrefix(f, "=") {
			return f
		}
		return "=" + f
	}
	v, err := s.file.GetCellValue(s.name, ref)
	if err != nil {
		return ""
	}
	return v
}

// SetCell writes a value at the 1-based position. String values beginning
// with "=" are stored as formulas; numeric strings keep their numeric type.
func (s *Sheet) SetCell(row, col int, value any) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if str, ok := value.(string); ok && strings.HasPrefix(str, "=") {
		return s.file.SetCellFormula(s.name, ref, strings.TrimPrefix(str, "="))
	}
	// An empty formula argument clears any formula on the cell, so writing
	// a plain value over a formula cell fully replaces it.
	if err := s.file.SetCellFormula(s.name, ref, ""); err != nil {
		return err
	}
	if str, ok := value.(string); ok {
		return s.file.SetCellValue(s.name, ref, parseScalar(str))
	}
	return s.file.SetCellValue(s.name, ref, value)
}

// MaxRow returns the index of the last row holding any content. Dimensions
// are recomputed on every call so structural mutations are always reflected.
func (s *Sheet) MaxRow() int {
	rows, err := s.file.GetRows(s.name)
	if err != nil {
		return 0
	}
	max := 0
	for i, row := range rows {
		for _, v := range row {
			if v != "" {
				max = i + 1
				break
			}
		}
	}
	return max
}

// MaxColumn returns the index of the widest populated column across all rows.
func (s *Sheet) MaxColumn() int {
	rows, err := s.file.GetRows(s.name)
	if err != nil {
		return 0
	}
	max := 0
	for _, row := range rows {
		for c := len(row); c > 0; c-- {
			if row[c-1] != "" {
				if c > max {
					max = c
				}
				break
			}
		}
	}
	return max
}

// InsertColumn inserts one empty column before the 1-based index. Indices
// past the current maximum append instead.
func (s *Sheet) InsertColumn(index int) error {
	max := s.MaxColumn()
	if index < 1 || index > max {
		index = max + 1
		// Columns past the edge need no shift; writes will land there.
		return nil
	}
	col, err := excelize.ColumnNumberToName(index)
	if err != nil {
		return err
	}
	return s.file.InsertCols(s.name, col, 1)
}

// DeleteColumn removes the 1-based column, shifting later columns left.
// Formula text referencing shifted cells is not rewritten; callers needing
// referential integrity must pre-convert formulas to literals.
func (s *Sheet) DeleteColumn(index int) error {
	col, err := excelize.ColumnNumberToName(index)
	if err != nil {
		return err
	}
	return s.file.RemoveCol(s.name, col)
}

// DeleteRow removes the 1-based row, shifting later rows up.
func (s *Sheet) DeleteRow(index int) error {
	return s.file.RemoveRow(s.name, index)
}

// Headers returns the header row with line breaks stripped. Empty trailing
// cells up to MaxColumn are included so positions stay aligned.
func (s *Sheet) Headers() []string {
	max := s.MaxColumn()
	headers := make([]string, max)
	for c := 1; c <= max; c++ {
		headers[c-1] = NormalizeHeader(s.Cell(1, c))
	}
	return headers
}

// UniqueHeaders returns the normalized headers with duplicates disambiguated
// by an _N suffix, matching the flattening applied when the grid is described
// to upstream planners.
func (s *Sheet) UniqueHeaders() []string {
	seen := make(map[string]int)
	headers := s.Headers()
	unique := make([]string, len(headers))
	for i, h := range headers {
		if h == "" {
			h = "Unnamed"
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			unique[i] = h + "_" + strconv.Itoa(n+1)
		} else {
			seen[h] = 0
			unique[i] = h
		}
	}
	return unique
}

// Records returns every row as a string slice padded to MaxColumn, header
// row included. Formula cells surface their "="-prefixed text.
func (s *Sheet) Records() [][]string {
	maxRow, maxCol := s.MaxRow(), s.MaxColumn()
	records := make([][]string, maxRow)
	for r := 1; r <= maxRow; r++ {
		row := make([]string, maxCol)
		for c := 1; c <= maxCol; c++ {
			row[c-1] = s.Cell(r, c)
		}
		records[r-1] = row
	}
	return records
}

// WriteRows replaces all data rows (row 2 onward) with the given records,
// removing any surplus rows beyond the new extent. Values round-trip through
// scalar inference so numeric text stays numeric.
func (s *Sheet) WriteRows(rows [][]string) error {
	oldMax := s.MaxRow()
	oldMaxCol := s.MaxColumn()
	for i, row := range rows {
		for j, v := range row {
			if err := s.SetCell(i+2, j+1, v); err != nil {
				return err
			}
		}
		// Clear stale cells to the right of the new row.
		for c := len(row) + 1; c <= oldMaxCol; c++ {
			if err := s.SetCell(i+2, c, ""); err != nil {
				return err
			}
		}
	}
	for r := oldMax; r > len(rows)+1; r-- {
		if err := s.DeleteRow(r); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeHeader strips line breaks from a header value.
func NormalizeHeader(v string) string {
	v = strings.ReplaceAll(v, "\n", "")
	return strings.ReplaceAll(v, "\r", "")
}

// parseScalar attempts to parse a string as a number, falling back to the
// original text. Leading zeros are kept as text so identifiers survive.
func parseScalar(s string) any {
	if s == "" {
		return ""
	}
	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
