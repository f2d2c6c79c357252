package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Krapic/examhub/internal/exam"
	"github.com/Krapic/examhub/internal/schema"
)

// Write writes the dataset to w as CSV with the canonical header row,
// one row per record in dataset order.
func Write(w io.Writer, ds *exam.Dataset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(schema.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range ds.Records() {
		row := []string{
			strconv.Itoa(r.StudentID),
			r.FirstName,
			r.LastName,
			r.Term,
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Grade),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", r.StudentID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the dataset to path, creating parent directories as
// needed.
func WriteFile(path string, ds *exam.Dataset) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := Write(f, ds); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
