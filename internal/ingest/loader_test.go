package ingest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Krapic/examhub/internal/exam"
)

const validCSV = `student_id,first_name,last_name,term,score,grade
1,Ana,Horvat,2025-02,92,5
2,Ivan,Perić,2025-06,55,2
3,Marijana,Babić,2025-02,71,3
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoad_CanonicalHeader(t *testing.T) {
	path := writeTemp(t, "results.csv", validCSV)

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ds.Len())
	}
	if ds.SourcePath() != path {
		t.Errorf("SourcePath() = %q, want %q", ds.SourcePath(), path)
	}

	r := ds.Records()[0]
	if r.StudentID != 1 || r.FirstName != "Ana" || r.Score != 92 || r.Grade != 5 {
		t.Errorf("first record = %+v", r)
	}
}

func TestLoad_CroatianHeader(t *testing.T) {
	path := writeTemp(t, "rezultati.csv", "šifra,ime,prezime,termin,bodovi,ocjena\n1,Ana,Horvat,2025-02,92,5\n")

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r := ds.Records()[0]; r.LastName != "Horvat" || r.Term != "2025-02" {
		t.Errorf("record = %+v, want aliased columns mapped", r)
	}
}

func TestLoad_MixedCaseHeader(t *testing.T) {
	path := writeTemp(t, "results.csv", "Student_ID,First_Name,LAST_NAME,Term,Score,Grade\n1,Ana,Horvat,2025-02,92,5\n")

	if _, err := Load(path); err != nil {
		t.Errorf("Load() error = %v, want mixed-case header accepted", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoad_WrongExtension(t *testing.T) {
	path := writeTemp(t, "results.txt", validCSV)

	_, err := Load(path)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Load() error = %v, want FormatError", err)
	}
}

func TestLoad_MissingColumnNamed(t *testing.T) {
	path := writeTemp(t, "results.csv", "student_id,first_name,last_name,term,score\n1,Ana,Horvat,2025-02,92\n")

	_, err := Load(path)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Load() error = %v, want SchemaError", err)
	}
	if len(se.Missing) != 1 || se.Missing[0] != "grade" {
		t.Errorf("SchemaError.Missing = %v, want [grade]", se.Missing)
	}
	if !strings.Contains(err.Error(), "grade") {
		t.Errorf("error %q does not name the missing column", err)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.csv", "")

	_, err := Load(path)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Load() error = %v, want ErrNoData", err)
	}
}

func TestLoad_HeaderOnly(t *testing.T) {
	path := writeTemp(t, "header.csv", "student_id,first_name,last_name,term,score,grade\n")

	_, err := Load(path)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Load() error = %v, want ErrNoData", err)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	header := "student_id,first_name,last_name,term,score,grade\n"

	tests := []struct {
		name  string
		row   string
		check func(t *testing.T, err error)
	}{
		{
			name: "non-numeric score",
			row:  "1,Ana,Horvat,2025-02,abc,5\n",
			check: func(t *testing.T, err error) {
				var te *TypeError
				if !errors.As(err, &te) || te.Column != "score" {
					t.Errorf("error = %v, want TypeError on score", err)
				}
			},
		},
		{
			name: "fractional grade",
			row:  "1,Ana,Horvat,2025-02,90,4.5\n",
			check: func(t *testing.T, err error) {
				var te *TypeError
				if !errors.As(err, &te) || te.Column != "grade" {
					t.Errorf("error = %v, want TypeError on grade", err)
				}
			},
		},
		{
			name: "score above range",
			row:  "1,Ana,Horvat,2025-02,101,5\n",
			check: func(t *testing.T, err error) {
				var re *RangeError
				if !errors.As(err, &re) || re.Column != "score" {
					t.Errorf("error = %v, want RangeError on score", err)
				}
			},
		},
		{
			name: "score below range",
			row:  "1,Ana,Horvat,2025-02,-1,5\n",
			check: func(t *testing.T, err error) {
				var re *RangeError
				if !errors.As(err, &re) || re.Column != "score" {
					t.Errorf("error = %v, want RangeError on score", err)
				}
			},
		},
		{
			name: "grade zero",
			row:  "1,Ana,Horvat,2025-02,90,0\n",
			check: func(t *testing.T, err error) {
				var re *RangeError
				if !errors.As(err, &re) || re.Column != "grade" {
					t.Errorf("error = %v, want RangeError on grade", err)
				}
			},
		},
		{
			name: "grade six",
			row:  "1,Ana,Horvat,2025-02,90,6\n",
			check: func(t *testing.T, err error) {
				var re *RangeError
				if !errors.As(err, &re) || re.Column != "grade" {
					t.Errorf("error = %v, want RangeError on grade", err)
				}
			},
		},
		{
			name: "blank first name",
			row:  "1, ,Horvat,2025-02,90,5\n",
			check: func(t *testing.T, err error) {
				var ee *EmptyFieldError
				if !errors.As(err, &ee) || ee.Column != "first_name" {
					t.Errorf("error = %v, want EmptyFieldError on first_name", err)
				}
			},
		},
		{
			name: "blank term",
			row:  "1,Ana,Horvat,,90,5\n",
			check: func(t *testing.T, err error) {
				var ee *EmptyFieldError
				if !errors.As(err, &ee) || ee.Column != "term" {
					t.Errorf("error = %v, want EmptyFieldError on term", err)
				}
			},
		},
		{
			name: "non-integer student id",
			row:  "x1,Ana,Horvat,2025-02,90,5\n",
			check: func(t *testing.T, err error) {
				var te *TypeError
				if !errors.As(err, &te) || te.Column != "student_id" {
					t.Errorf("error = %v, want TypeError on student_id", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "bad.csv", header+tt.row)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() accepted invalid data")
			}
			tt.check(t, err)
		})
	}
}

func TestLoad_ChecksOrderedByColumn(t *testing.T) {
	// Row 2 has a blank name, row 3 a bad score. The score check scans
	// the whole column first, so it wins.
	content := "student_id,first_name,last_name,term,score,grade\n" +
		"1, ,Horvat,2025-02,90,5\n" +
		"2,Ivan,Perić,2025-02,abc,3\n"
	path := writeTemp(t, "order.csv", content)

	_, err := Load(path)
	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("Load() error = %v, want TypeError (score checked before names)", err)
	}
	if te.Column != "score" || te.Line != 3 {
		t.Errorf("TypeError = %+v, want score at line 3", te)
	}
}

func TestLoad_DuplicateStudentID(t *testing.T) {
	content := "student_id,first_name,last_name,term,score,grade\n" +
		"1,Ana,Horvat,2025-02,90,5\n" +
		"1,Ivan,Perić,2025-02,50,2\n"
	path := writeTemp(t, "dup.csv", content)

	_, err := Load(path)
	var dup *exam.DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("Load() error = %v, want DuplicateIDError", err)
	}
}

func TestLoad_FractionalScoreTruncated(t *testing.T) {
	path := writeTemp(t, "frac.csv", "student_id,first_name,last_name,term,score,grade\n1,Ana,Horvat,2025-02,87.5,4\n")

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := ds.Records()[0].Score; got != 87 {
		t.Errorf("Score = %d, want 87", got)
	}
}

func TestLoad_WholeNumberGradeAccepted(t *testing.T) {
	path := writeTemp(t, "whole.csv", "student_id,first_name,last_name,term,score,grade\n1,Ana,Horvat,2025-02,90,4.0\n")

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v for grade 4.0", err)
	}
	if got := ds.Records()[0].Grade; got != 4 {
		t.Errorf("Grade = %d, want 4", got)
	}
}

func TestLoad_GradeScoreDisagreementPreserved(t *testing.T) {
	// Score 95 with grade 1 is internally inconsistent but valid input;
	// the loader must not recompute grades.
	path := writeTemp(t, "odd.csv", "student_id,first_name,last_name,term,score,grade\n1,Ana,Horvat,2025-02,95,1\n")

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r := ds.Records()[0]; r.Grade != 1 || r.Score != 95 {
		t.Errorf("record = %+v, want grade 1 and score 95 kept as-is", r)
	}
}

func TestLoad_Latin1Fallback(t *testing.T) {
	// 0xE9 is "é" in Latin-1; the file is not valid UTF-8.
	content := "student_id,first_name,last_name,term,score,grade\n1,Ren\xe9,Horvat,2025-02,90,5\n"
	path := writeTemp(t, "latin1.csv", content)

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want Latin-1 fallback", err)
	}
	if got := ds.Records()[0].FirstName; got != "René" {
		t.Errorf("FirstName = %q, want %q", got, "René")
	}
}

func TestLoad_ExtraColumnsIgnored(t *testing.T) {
	content := "student_id,first_name,last_name,term,score,grade,napomena\n1,Ana,Horvat,2025-02,90,5,odlično\n"
	path := writeTemp(t, "extra.csv", content)

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ds.Len())
	}
}

func TestRead_SetsOrigin(t *testing.T) {
	ds, err := Read(strings.NewReader(validCSV), "upload.csv")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if ds.SourcePath() != "upload.csv" {
		t.Errorf("SourcePath() = %q, want %q", ds.SourcePath(), "upload.csv")
	}
}

func TestProbe(t *testing.T) {
	good := writeTemp(t, "good.csv", validCSV)
	if ok, reason := Probe(good); !ok || reason != "" {
		t.Errorf("Probe(good) = (%v, %q), want (true, \"\")", ok, reason)
	}

	bad := writeTemp(t, "bad.csv", "student_id,first_name\n1,Ana\n")
	ok, reason := Probe(bad)
	if ok {
		t.Error("Probe(bad) = true, want false")
	}
	if !strings.Contains(reason, "missing required columns") {
		t.Errorf("Probe(bad) reason = %q, want missing-columns description", reason)
	}

	if ok, reason := Probe(filepath.Join(t.TempDir(), "nope.csv")); ok || reason == "" {
		t.Errorf("Probe(absent) = (%v, %q), want (false, non-empty)", ok, reason)
	}
}
