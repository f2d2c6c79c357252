// Package exam provides the in-memory data model for student exam results.
// This package has no I/O or UI dependencies and can be used by any frontend.
package exam

import "fmt"

// Score and grade bounds for a valid record.
const (
	MinScore = 0
	MaxScore = 100
	MinGrade = 1
	MaxGrade = 5

	// PassingGrade is the lowest grade that counts as a pass.
	PassingGrade = 2
)

// Record is a single student exam result.
type Record struct {
	StudentID int    `json:"studentId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Term      string `json:"term"`
	Score     int    `json:"score"`
	Grade     int    `json:"grade"`
}

// FullName returns the student's display name.
func (r Record) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Passed reports whether the grade counts as a pass.
func (r Record) Passed() bool {
	return r.Grade >= PassingGrade
}

// Validate checks the record against the field constraints.
// The grade is validated only for range; it is not required to agree
// with the score, since graded source files are taken as-is.
func (r Record) Validate() error {
	if r.StudentID <= 0 {
		return fmt.Errorf("student_id must be positive, got %d", r.StudentID)
	}
	if r.FirstName == "" {
		return fmt.Errorf("first_name must not be empty")
	}
	if r.LastName == "" {
		return fmt.Errorf("last_name must not be empty")
	}
	if r.Term == "" {
		return fmt.Errorf("term must not be empty")
	}
	if r.Score < MinScore || r.Score > MaxScore {
		return fmt.Errorf("score %d outside %d-%d", r.Score, MinScore, MaxScore)
	}
	if r.Grade < MinGrade || r.Grade > MaxGrade {
		return fmt.Errorf("grade %d outside %d-%d", r.Grade, MinGrade, MaxGrade)
	}
	return nil
}
