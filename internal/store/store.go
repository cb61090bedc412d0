package store

import (
	"context"
	"errors"
	"fmt"
)

var ErrSheetNotFound = errors.New("sheet not found")

// Table is a raw sheet read: the first row and the ragged rows under it.
type Table struct {
	Header []string
	Rows   [][]string
}

func (t Table) Empty() bool {
	return len(t.Header) == 0
}

// Store is the spreadsheet-like backend. Fetch of a sheet without rows returns
// an empty Table and no error. Append failures are returned as is, the caller
// decides what to report; nothing here retries.
type Store interface {
	Fetch(ctx context.Context, sheet, rangeSpec string) (Table, error)
	Append(ctx context.Context, sheet string, values []string) error
}

// Error annotates a failed store call with the operation and sheet.
type Error struct {
	Op    string
	Sheet string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s [%s]: %s", e.Op, e.Sheet, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// SplitHeader turns the raw cell grid into a Table; an empty grid gives an
// empty Table.
func SplitHeader(values [][]string) Table {
	if len(values) == 0 {
		return Table{}
	}
	return Table{
		Header: values[0],
		Rows:   values[1:],
	}
}
