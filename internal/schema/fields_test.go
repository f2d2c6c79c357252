package schema

import "testing"

func TestResolve_CanonicalHeader(t *testing.T) {
	mapping, missing := Resolve([]string{"student_id", "first_name", "last_name", "term", "score", "grade"})
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
	if mapping[FieldStudentID] != 0 || mapping[FieldGrade] != 5 {
		t.Errorf("mapping = %v, want positions 0..5 in header order", mapping)
	}
}

func TestResolve_CroatianAliases(t *testing.T) {
	mapping, missing := Resolve([]string{"šifra", "ime", "prezime", "ispitni_rok", "bodovi", "ocjena"})
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
	want := map[string]int{
		FieldStudentID: 0,
		FieldFirstName: 1,
		FieldLastName:  2,
		FieldTerm:      3,
		FieldScore:     4,
		FieldGrade:     5,
	}
	for field, pos := range want {
		if mapping[field] != pos {
			t.Errorf("mapping[%q] = %d, want %d", field, mapping[field], pos)
		}
	}
}

func TestResolve_CaseAndWhitespaceInsensitive(t *testing.T) {
	mapping, missing := Resolve([]string{" Student_ID ", "IME", "Prezime", "TERM", "Bodovi ", "Grade"})
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
	if mapping[FieldScore] != 4 {
		t.Errorf("mapping[score] = %d, want 4", mapping[FieldScore])
	}
}

func TestResolve_ReportsMissingInSchemaOrder(t *testing.T) {
	_, missing := Resolve([]string{"ime", "prezime", "term"})
	want := []string{FieldStudentID, FieldScore, FieldGrade}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d] = %q, want %q", i, missing[i], want[i])
		}
	}
}

func TestResolve_CanonicalBeatsAlias(t *testing.T) {
	// Both "bodovi" and "score" present: the canonical name wins even
	// though the alias appears first in the header.
	mapping, missing := Resolve([]string{"bodovi", "student_id", "ime", "prezime", "term", "score", "grade"})
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
	if mapping[FieldScore] != 5 {
		t.Errorf("mapping[score] = %d, want 5 (canonical column)", mapping[FieldScore])
	}
}

func TestResolve_IgnoresUnknownColumns(t *testing.T) {
	mapping, missing := Resolve([]string{"student_id", "napomena", "first_name", "last_name", "term", "score", "grade"})
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
	if mapping[FieldFirstName] != 2 {
		t.Errorf("mapping[first_name] = %d, want 2", mapping[FieldFirstName])
	}
	if len(mapping) != 6 {
		t.Errorf("mapping has %d entries, want 6 (unknown columns ignored)", len(mapping))
	}
}

func TestResolve_DuplicateHeaderFirstWins(t *testing.T) {
	mapping, _ := Resolve([]string{"score", "score", "student_id", "ime", "prezime", "term", "grade"})
	if mapping[FieldScore] != 0 {
		t.Errorf("mapping[score] = %d, want 0 (first occurrence)", mapping[FieldScore])
	}
}

func TestHeader_SchemaOrder(t *testing.T) {
	got := Header()
	want := []string{"student_id", "first_name", "last_name", "term", "score", "grade"}
	if len(got) != len(want) {
		t.Fatalf("Header() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Header()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
