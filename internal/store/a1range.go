package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a parsed A1 range such as "A1:R1000" or "A1:B". Columns are
// 0-based and inclusive; rows are 1-based and inclusive, 0 meaning unbounded.
type Range struct {
	StartCol int
	EndCol   int
	StartRow int
	EndRow   int
}

// ParseRange parses the cell part of an A1 range (without the sheet name).
// An empty notation selects everything.
func ParseRange(notation string) (Range, error) {
	notation = strings.ToUpper(strings.TrimSpace(notation))
	if notation == "" {
		return Range{StartCol: 0, EndCol: -1, StartRow: 1}, nil
	}

	from, to, found := strings.Cut(notation, ":")
	if !found {
		to = from
	}

	startCol, startRow, err := parseCell(from)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", notation, err)
	}
	endCol, endRow, err := parseCell(to)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", notation, err)
	}

	if startCol < 0 {
		startCol = 0
	}
	if startRow == 0 {
		startRow = 1
	}
	if endCol >= 0 && endCol < startCol {
		return Range{}, fmt.Errorf("range %q: end column before start column", notation)
	}
	if endRow != 0 && endRow < startRow {
		return Range{}, fmt.Errorf("range %q: end row before start row", notation)
	}

	return Range{
		StartCol: startCol,
		EndCol:   endCol,
		StartRow: startRow,
		EndRow:   endRow,
	}, nil
}

// parseCell splits "AB12" into column 27 and row 12. A missing column is -1,
// a missing row is 0.
func parseCell(cell string) (int, int, error) {
	i := 0
	col := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		col = col*26 + int(cell[i]-'A'+1)
		i++
	}
	col--

	row := 0
	if i < len(cell) {
		r, err := strconv.Atoi(cell[i:])
		if err != nil || r < 1 {
			return 0, 0, fmt.Errorf("invalid cell %q", cell)
		}
		row = r
	}
	if i == 0 && row == 0 {
		return 0, 0, fmt.Errorf("invalid cell %q", cell)
	}
	return col, row, nil
}

// Apply cuts a full sheet grid (row 1 first) down to the range. Trailing
// cells are not padded; raggedness is preserved.
func (r Range) Apply(values [][]string) [][]string {
	var out [][]string
	for i, row := range values {
		rowNum := i + 1
		if rowNum < r.StartRow {
			continue
		}
		if r.EndRow != 0 && rowNum > r.EndRow {
			break
		}

		if r.StartCol >= len(row) {
			out = append(out, []string{})
			continue
		}
		end := len(row)
		if r.EndCol >= 0 && r.EndCol+1 < end {
			end = r.EndCol + 1
		}
		out = append(out, append([]string(nil), row[r.StartCol:end]...))
	}
	return out
}

// ColumnName renders a 0-based column index as letters (0 -> A, 27 -> AB).
func ColumnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}
