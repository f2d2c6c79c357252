// Package ingest loads exam-results datasets from CSV sources.
//
// Loading normalizes header aliases to the canonical schema, validates the
// data in a fixed order, and builds an immutable dataset with provenance.
// The first failed check aborts the load; each failure class has its own
// error type so callers can distinguish a malformed header from a bad cell
// or an unreadable file.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Krapic/examhub/internal/csvio"
	"github.com/Krapic/examhub/internal/exam"
	"github.com/Krapic/examhub/internal/schema"
)

// Load reads the CSV file at path and builds a dataset with path as its
// provenance. The file must exist and carry a .csv extension.
func Load(path string) (*exam.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return nil, &FormatError{Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return build(data, path)
}

// Read builds a dataset from an in-memory CSV source, such as an HTTP
// upload. The origin (typically the uploaded file name) is recorded as
// the dataset's provenance.
func Read(r io.Reader, origin string) (*exam.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", origin, err)
	}
	return build(data, origin)
}

// Probe reports whether the file at path would load, without loading it
// into the caller's state. The reason is empty when ok is true and holds
// the failure description otherwise; Probe never returns an error.
func Probe(path string) (ok bool, reason string) {
	if _, err := Load(path); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func build(data []byte, origin string) (*exam.Dataset, error) {
	rows, err := csvio.Parse(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrNoData)
	}

	mapping, missing := schema.Resolve(rows[0])
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	body := rows[1:]
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: header only", ErrNoData)
	}

	if err := validate(body, mapping); err != nil {
		return nil, err
	}

	records, err := convert(body, mapping)
	if err != nil {
		return nil, err
	}
	return exam.New(records, origin)
}

// cell returns the trimmed value at the mapped column, or "" when the row
// is too short to reach it.
func cell(row []string, mapping schema.ColumnMapping, field string) string {
	pos := mapping[field]
	if pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}
