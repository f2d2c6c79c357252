package exam

import (
	"math"
	"sort"
)

// Statistics summarizes a dataset. All values are zero for an empty
// dataset; the maps are always non-nil.
type Statistics struct {
	Count             int                  `json:"count"`
	AvgGrade          float64              `json:"avgGrade"`
	AvgScore          float64              `json:"avgScore"`
	StdScore          float64              `json:"stdScore"`
	MinScore          int                  `json:"minScore"`
	MaxScore          int                  `json:"maxScore"`
	MedianScore       float64              `json:"medianScore"`
	PassRate          float64              `json:"passRate"`
	PassedCount       int                  `json:"passedCount"`
	FailedCount       int                  `json:"failedCount"`
	GradeDistribution map[int]int          `json:"gradeDistribution"`
	TermStats         map[string]TermStats `json:"termStats"`
}

// TermStats summarizes the records of a single term.
type TermStats struct {
	Count    int     `json:"count"`
	AvgScore float64 `json:"avgScore"`
	AvgGrade float64 `json:"avgGrade"`
	PassRate float64 `json:"passRate"`
}

// Stats returns summary statistics for the dataset. The result is computed
// once per dataset and cached; datasets are immutable so the cache never
// goes stale.
func (d *Dataset) Stats() Statistics {
	d.statsOnce.Do(func() {
		d.stats = computeStats(d.records)
	})
	return d.stats
}

func computeStats(records []Record) Statistics {
	s := Statistics{
		GradeDistribution: make(map[int]int, MaxGrade-MinGrade+1),
		TermStats:         make(map[string]TermStats),
	}
	for g := MinGrade; g <= MaxGrade; g++ {
		s.GradeDistribution[g] = 0
	}

	n := len(records)
	s.Count = n
	if n == 0 {
		return s
	}

	var gradeSum, scoreSum int
	scores := make([]int, 0, n)
	s.MinScore = records[0].Score
	s.MaxScore = records[0].Score

	for _, r := range records {
		gradeSum += r.Grade
		scoreSum += r.Score
		scores = append(scores, r.Score)
		s.GradeDistribution[r.Grade]++
		if r.Passed() {
			s.PassedCount++
		}
		if r.Score < s.MinScore {
			s.MinScore = r.Score
		}
		if r.Score > s.MaxScore {
			s.MaxScore = r.Score
		}
	}

	s.FailedCount = n - s.PassedCount
	s.AvgGrade = float64(gradeSum) / float64(n)
	s.AvgScore = float64(scoreSum) / float64(n)
	s.PassRate = float64(s.PassedCount) / float64(n) * 100
	s.StdScore = sampleStdDev(scores, s.AvgScore)
	s.MedianScore = median(scores)
	s.TermStats = termStats(records)

	return s
}

// sampleStdDev returns the sample standard deviation (n-1 denominator),
// or 0 when fewer than two values are present.
func sampleStdDev(values []int, mean float64) float64 {
	n := len(values)
	if n <= 1 {
		return 0
	}
	var sum float64
	for _, v := range values {
		diff := float64(v) - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(n-1))
}

// median returns the middle value, averaging the two central values for
// an even count.
func median(values []int) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]int, n)
	copy(sorted, values)
	sort.Ints(sorted)

	mid := n / 2
	if n%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

func termStats(records []Record) map[string]TermStats {
	type acc struct {
		count    int
		scoreSum int
		gradeSum int
		passed   int
	}
	byTerm := make(map[string]*acc)
	for _, r := range records {
		a := byTerm[r.Term]
		if a == nil {
			a = &acc{}
			byTerm[r.Term] = a
		}
		a.count++
		a.scoreSum += r.Score
		a.gradeSum += r.Grade
		if r.Passed() {
			a.passed++
		}
	}

	out := make(map[string]TermStats, len(byTerm))
	for term, a := range byTerm {
		out[term] = TermStats{
			Count:    a.count,
			AvgScore: float64(a.scoreSum) / float64(a.count),
			AvgGrade: float64(a.gradeSum) / float64(a.count),
			PassRate: float64(a.passed) / float64(a.count) * 100,
		}
	}
	return out
}
