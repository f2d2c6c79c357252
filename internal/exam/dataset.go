package exam

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DuplicateIDError reports a student ID that appears more than once.
type DuplicateIDError struct {
	StudentID int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate student_id %d", e.StudentID)
}

// Dataset is an immutable, ordered collection of exam records.
//
// All transformations (filters, search, sort) return new Datasets and leave
// the receiver untouched. The source path records where the data came from
// and is carried through transformations.
type Dataset struct {
	records []Record
	source  string

	statsOnce sync.Once
	stats     Statistics
}

// New builds a dataset from records, validating each one and rejecting
// duplicate student IDs. The records slice is copied; sourcePath may be
// empty for data that was never persisted.
func New(records []Record, sourcePath string) (*Dataset, error) {
	seen := make(map[int]struct{}, len(records))
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if _, dup := seen[r.StudentID]; dup {
			return nil, &DuplicateIDError{StudentID: r.StudentID}
		}
		seen[r.StudentID] = struct{}{}
	}

	rs := make([]Record, len(records))
	copy(rs, records)
	return &Dataset{records: rs, source: sourcePath}, nil
}

// derive builds a dataset from records that are already validated,
// taking ownership of the slice.
func derive(records []Record, source string) *Dataset {
	return &Dataset{records: records, source: source}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// SourcePath returns the file the dataset was loaded from or saved to,
// or "" for generated data that was never written out.
func (d *Dataset) SourcePath() string {
	return d.source
}

// WithSource returns a copy of the dataset with its provenance set to path.
func (d *Dataset) WithSource(path string) *Dataset {
	return derive(d.records, path)
}

// Records returns a copy of the records in insertion order. Each call
// returns a fresh slice, so callers can range over it repeatedly or
// modify it without affecting the dataset.
func (d *Dataset) Records() []Record {
	rs := make([]Record, len(d.records))
	copy(rs, d.records)
	return rs
}

// Terms returns the distinct terms in the dataset, lexicographically sorted.
func (d *Dataset) Terms() []string {
	set := make(map[string]struct{})
	for _, r := range d.records {
		set[r.Term] = struct{}{}
	}
	terms := make([]string, 0, len(set))
	for t := range set {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// Grades returns the distinct grades present in the dataset, ascending.
func (d *Dataset) Grades() []int {
	set := make(map[int]struct{})
	for _, r := range d.records {
		set[r.Grade] = struct{}{}
	}
	grades := make([]int, 0, len(set))
	for g := range set {
		grades = append(grades, g)
	}
	sort.Ints(grades)
	return grades
}

// GradeDistribution returns the record count for every grade on the scale,
// including grades with zero records.
func (d *Dataset) GradeDistribution() map[int]int {
	dist := make(map[int]int, MaxGrade-MinGrade+1)
	for g := MinGrade; g <= MaxGrade; g++ {
		dist[g] = 0
	}
	for _, r := range d.records {
		dist[r.Grade]++
	}
	return dist
}

// FilterTerm returns the records whose term equals term exactly.
func (d *Dataset) FilterTerm(term string) *Dataset {
	return d.filter(func(r Record) bool { return r.Term == term })
}

// FilterGrade returns the records with the given grade.
func (d *Dataset) FilterGrade(grade int) *Dataset {
	return d.filter(func(r Record) bool { return r.Grade == grade })
}

// FilterScoreRange returns the records with min <= score <= max.
// A min greater than max matches nothing.
func (d *Dataset) FilterScoreRange(min, max int) *Dataset {
	return d.filter(func(r Record) bool { return r.Score >= min && r.Score <= max })
}

// Search returns the records whose first or last name contains the query,
// case-insensitively. An empty query returns the dataset unchanged, so
// callers can pass user input through without special-casing it.
func (d *Dataset) Search(query string) *Dataset {
	if query == "" {
		return d
	}
	q := strings.ToLower(query)
	return d.filter(func(r Record) bool {
		return strings.Contains(strings.ToLower(r.FirstName), q) ||
			strings.Contains(strings.ToLower(r.LastName), q)
	})
}

func (d *Dataset) filter(keep func(Record) bool) *Dataset {
	var out []Record
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return derive(out, d.source)
}

// SortKey identifies a record field to sort by.
type SortKey string

const (
	SortStudentID SortKey = "student_id"
	SortFirstName SortKey = "first_name"
	SortLastName  SortKey = "last_name"
	SortTerm      SortKey = "term"
	SortScore     SortKey = "score"
	SortGrade     SortKey = "grade"
)

// ParseSortKey converts a column name into a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortStudentID:
		return SortStudentID, nil
	case SortFirstName:
		return SortFirstName, nil
	case SortLastName:
		return SortLastName, nil
	case SortTerm:
		return SortTerm, nil
	case SortScore:
		return SortScore, nil
	case SortGrade:
		return SortGrade, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// SortBy returns a new dataset ordered by the given key. Records that
// compare equal on the key are ordered by student ID, so the result is
// deterministic regardless of input order.
func (d *Dataset) SortBy(key SortKey, desc bool) *Dataset {
	out := d.Records()
	less := lessFunc(key)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if desc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.StudentID < b.StudentID
	})
	return derive(out, d.source)
}

func lessFunc(key SortKey) func(a, b Record) bool {
	switch key {
	case SortFirstName:
		return func(a, b Record) bool { return a.FirstName < b.FirstName }
	case SortLastName:
		return func(a, b Record) bool { return a.LastName < b.LastName }
	case SortTerm:
		return func(a, b Record) bool { return a.Term < b.Term }
	case SortScore:
		return func(a, b Record) bool { return a.Score < b.Score }
	case SortGrade:
		return func(a, b Record) bool { return a.Grade < b.Grade }
	default:
		return func(a, b Record) bool { return a.StudentID < b.StudentID }
	}
}
