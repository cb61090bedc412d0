package rows

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Cell is a single value as delivered by the store. Present is false for the
// padding added to rows shorter than the header, which is not the same as an
// empty string typed into the sheet.
type Cell struct {
	Value   string `json:"value"`
	Present bool   `json:"present"`
}

// Float is an optional number; Valid is false when the cell was missing or did
// not parse.
type Float struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

type Int struct {
	Value int64 `json:"value"`
	Valid bool  `json:"valid"`
}

type Timestamp struct {
	Time  time.Time `json:"time"`
	Valid bool      `json:"valid"`
}

type Field struct {
	Name string
	Raw  Cell
	Num  Float
	Int  Int
	Time Timestamp
}

type Record struct {
	Fields []Field
	index  map[string]int
}

type Table struct {
	Columns []string
	Records []Record
	// TruncatedRows counts data rows that were longer than the header and lost
	// their overflow cells.
	TruncatedRows int
}

func (t Table) Len() int {
	return len(t.Records)
}

// Normalize turns ragged string rows into records that carry every header
// column. Short rows are padded with missing cells, overflow cells are dropped
// and counted, declared columns are coerced, and legacy header names are
// resolved through the schema.
func Normalize(header []string, data [][]string, schema *Schema) Table {
	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := schema.Canonical(h)
		columns[i] = name
		// the first occurrence wins if two headers resolve to the same name
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	table := Table{
		Columns: columns,
		Records: make([]Record, 0, len(data)),
	}

	for _, row := range data {
		if len(row) > len(header) {
			table.TruncatedRows++
		}

		fields := make([]Field, len(header))
		for i, name := range columns {
			cell := Cell{}
			if i < len(row) {
				cell = Cell{Value: row[i], Present: true}
			}
			fields[i] = coerce(name, schema.Kind(name), cell)
		}

		table.Records = append(table.Records, Record{
			Fields: fields,
			index:  index,
		})
	}

	return table
}

func coerce(name string, kind Kind, cell Cell) Field {
	f := Field{Name: name, Raw: cell}
	if !cell.Present {
		return f
	}

	switch kind {
	case KindNumber:
		f.Num = ParseNonNegative(cell.Value)
	case KindInteger:
		f.Int = ParseCount(cell.Value)
		if f.Int.Valid {
			f.Num = Float{Value: float64(f.Int.Value), Valid: true}
		}
	case KindTimestamp:
		if t, ok := ParseDayFirst(cell.Value); ok {
			f.Time = Timestamp{Time: t, Valid: true}
		}
	}

	return f
}

// ParseNonNegative parses a finite, non-negative number. Anything else is
// reported as unknown.
func ParseNonNegative(s string) Float {
	s = strings.TrimSpace(s)
	if s == "" {
		return Float{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Float{}
	}
	return Float{Value: v, Valid: true}
}

// ParseCount parses a non-negative whole number; "12.0" is accepted, "12.5" is not.
func ParseCount(s string) Int {
	f := ParseNonNegative(s)
	if !f.Valid || f.Value != math.Trunc(f.Value) || f.Value > math.MaxInt64 {
		return Int{}
	}
	return Int{Value: int64(f.Value), Valid: true}
}

var dayFirstLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006 15:04:05",
	"2-1-2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

// ParseDayFirst parses spreadsheet timestamps. Slash and dash separated dates
// are read day first; ISO dates are read as ISO. The result is a wall-clock
// time in UTC.
func ParseDayFirst(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (r Record) Len() int {
	return len(r.Fields)
}

func (r Record) field(name string) (Field, bool) {
	i, ok := r.index[name]
	if !ok || i >= len(r.Fields) {
		return Field{}, false
	}
	return r.Fields[i], true
}

// Text returns the trimmed cell text and whether the cell was present.
func (r Record) Text(name string) (string, bool) {
	f, ok := r.field(name)
	if !ok || !f.Raw.Present {
		return "", false
	}
	return strings.TrimSpace(f.Raw.Value), true
}

func (r Record) Cell(name string) Cell {
	f, _ := r.field(name)
	return f.Raw
}

func (r Record) Float(name string) Float {
	f, _ := r.field(name)
	return f.Num
}

func (r Record) Int(name string) Int {
	f, _ := r.field(name)
	return f.Int
}

func (r Record) Time(name string) Timestamp {
	f, _ := r.field(name)
	return f.Time
}
