package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoData is returned when a file parses but contains no data rows.
// Errors from Load and Read wrap it with detail about what was missing.
var ErrNoData = errors.New("csv contains no data rows")

// FormatError reports a file that is not a CSV file by extension.
type FormatError struct {
	Path string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q: expected a .csv file", e.Path)
}

// SchemaError reports canonical columns that could not be resolved from
// the header, under any accepted alias.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// TypeError reports a cell whose value cannot be parsed as the column's
// type. Line numbers are 1-based file lines; the header is line 1.
type TypeError struct {
	Column string
	Value  string
	Line   int
	Want   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("column %q: value %q on line %d is not %s", e.Column, e.Value, e.Line, e.Want)
}

// RangeError reports a numeric cell outside the column's allowed range.
type RangeError struct {
	Column   string
	Value    string
	Line     int
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("column %q: value %q on line %d outside %d-%d", e.Column, e.Value, e.Line, e.Min, e.Max)
}

// EmptyFieldError reports a required text cell that is empty.
type EmptyFieldError struct {
	Column string
	Line   int
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("column %q: empty value on line %d", e.Column, e.Line)
}
