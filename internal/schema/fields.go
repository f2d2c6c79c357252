// Package schema defines the canonical exam-results CSV schema and the
// header aliases accepted for each column.
package schema

import "strings"

// Canonical column names. Files are written with these headers; loaded
// files may use any alias listed in Fields.
const (
	FieldStudentID = "student_id"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldTerm      = "term"
	FieldScore     = "score"
	FieldGrade     = "grade"
)

// FieldKind describes how a column's values are interpreted.
type FieldKind int

const (
	KindText FieldKind = iota
	KindInt
	KindNumeric
)

// FieldSpec describes one canonical column: its accepted header spellings
// and value kind. The canonical name is listed first in Aliases so it wins
// when a file carries both it and a localized header.
type FieldSpec struct {
	Canonical string
	Aliases   []string
	Kind      FieldKind
}

// Fields is the exam-results schema. Every column is required. The alias
// lists cover both the English and the Croatian header namings.
var Fields = []FieldSpec{
	{Canonical: FieldStudentID, Kind: KindInt, Aliases: []string{"student_id", "id", "studentid", "šifra"}},
	{Canonical: FieldFirstName, Kind: KindText, Aliases: []string{"first_name", "ime", "firstname", "name"}},
	{Canonical: FieldLastName, Kind: KindText, Aliases: []string{"last_name", "prezime", "lastname", "surname"}},
	{Canonical: FieldTerm, Kind: KindText, Aliases: []string{"term", "termin", "datum", "date", "ispitni_rok"}},
	{Canonical: FieldScore, Kind: KindNumeric, Aliases: []string{"score", "bodovi", "points", "bod"}},
	{Canonical: FieldGrade, Kind: KindInt, Aliases: []string{"grade", "ocjena", "ocj"}},
}

// Header returns the canonical column names in schema order.
func Header() []string {
	names := make([]string, len(Fields))
	for i, f := range Fields {
		names[i] = f.Canonical
	}
	return names
}

// ColumnMapping maps canonical column names to their position in a CSV row.
type ColumnMapping map[string]int

// Resolve matches a CSV header row against the schema. For each canonical
// column the alias list is scanned in order and the first alias present in
// the header wins; matching is case-insensitive and ignores surrounding
// whitespace. Header columns that match no alias are left out of the
// mapping and ignored by callers.
//
// The second return value lists the canonical names of columns that could
// not be resolved, in schema order. An empty list means the header is
// complete.
func Resolve(headers []string) (ColumnMapping, []string) {
	positions := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, ok := positions[key]; !ok {
			positions[key] = i
		}
	}

	mapping := make(ColumnMapping, len(Fields))
	var missing []string
	for _, f := range Fields {
		pos, ok := -1, false
		for _, alias := range f.Aliases {
			if p, found := positions[alias]; found {
				pos, ok = p, true
				break
			}
		}
		if !ok {
			missing = append(missing, f.Canonical)
			continue
		}
		mapping[f.Canonical] = pos
	}

	return mapping, missing
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
