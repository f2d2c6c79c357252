package ingest

import (
	"math"
	"strconv"

	"github.com/Krapic/examhub/internal/exam"
	"github.com/Krapic/examhub/internal/schema"
)

// validate runs the column checks over all data rows in a fixed order:
// score values numeric, grade values whole numbers, scores in range,
// grades in range, then text columns non-empty. Each check scans the
// whole column before the next one runs, so a bad score is always
// reported ahead of a blank name on an earlier row.
func validate(rows [][]string, mapping schema.ColumnMapping) error {
	if err := checkNumeric(rows, mapping, schema.FieldScore, false); err != nil {
		return err
	}
	if err := checkNumeric(rows, mapping, schema.FieldGrade, true); err != nil {
		return err
	}
	if err := checkRange(rows, mapping, schema.FieldScore, exam.MinScore, exam.MaxScore); err != nil {
		return err
	}
	if err := checkRange(rows, mapping, schema.FieldGrade, exam.MinGrade, exam.MaxGrade); err != nil {
		return err
	}
	for _, field := range []string{schema.FieldFirstName, schema.FieldLastName, schema.FieldTerm} {
		if err := checkNonEmpty(rows, mapping, field); err != nil {
			return err
		}
	}
	return nil
}

// checkNumeric verifies every value in the column parses as a number.
// With wholeNumber set, fractional values are rejected as well, so "4.0"
// passes where "4.5" does not.
func checkNumeric(rows [][]string, mapping schema.ColumnMapping, field string, wholeNumber bool) error {
	want := "a number"
	if wholeNumber {
		want = "a whole number"
	}
	for i, row := range rows {
		raw := cell(row, mapping, field)
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || (wholeNumber && math.Trunc(f) != f) {
			return &TypeError{Column: field, Value: raw, Line: i + 2, Want: want}
		}
	}
	return nil
}

// checkRange verifies every value in the column falls within [min, max].
// Values are compared as floats so that "87.5" is range-checked before
// conversion truncates it.
func checkRange(rows [][]string, mapping schema.ColumnMapping, field string, min, max int) error {
	for i, row := range rows {
		raw := cell(row, mapping, field)
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return &TypeError{Column: field, Value: raw, Line: i + 2, Want: "a number"}
		}
		if f < float64(min) || f > float64(max) {
			return &RangeError{Column: field, Value: raw, Line: i + 2, Min: min, Max: max}
		}
	}
	return nil
}

func checkNonEmpty(rows [][]string, mapping schema.ColumnMapping, field string) error {
	for i, row := range rows {
		if cell(row, mapping, field) == "" {
			return &EmptyFieldError{Column: field, Line: i + 2}
		}
	}
	return nil
}

// convert builds records from validated rows. Student IDs parse here,
// after the column checks. Fractional scores are truncated toward zero.
func convert(rows [][]string, mapping schema.ColumnMapping) ([]exam.Record, error) {
	records := make([]exam.Record, 0, len(rows))
	for i, row := range rows {
		rawID := cell(row, mapping, schema.FieldStudentID)
		id, err := strconv.Atoi(rawID)
		if err != nil {
			return nil, &TypeError{Column: schema.FieldStudentID, Value: rawID, Line: i + 2, Want: "an integer"}
		}

		score, _ := strconv.ParseFloat(cell(row, mapping, schema.FieldScore), 64)
		grade, _ := strconv.ParseFloat(cell(row, mapping, schema.FieldGrade), 64)

		records = append(records, exam.Record{
			StudentID: id,
			FirstName: cell(row, mapping, schema.FieldFirstName),
			LastName:  cell(row, mapping, schema.FieldLastName),
			Term:      cell(row, mapping, schema.FieldTerm),
			Score:     int(score),
			Grade:     int(grade),
		})
	}
	return records, nil
}
