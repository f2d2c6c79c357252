package synth

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Krapic/examhub/internal/csvio"
	"github.com/Krapic/examhub/internal/exam"
)

// maxNameAttempts bounds the retry loop that searches for an unused
// name. Hitting it means the pools are nearly exhausted.
const maxNameAttempts = 1000

// CapacityError reports a request for more records than the name pools
// can supply without repeats.
type CapacityError struct {
	Requested int
	MaxUnique int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("cannot generate %d records: name pools yield at most %d unique students", e.Requested, e.MaxUnique)
}

// ExhaustedError reports that the random search gave up before finding
// an unused name, even though capacity had not been reached.
type ExhaustedError struct {
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no unused name found after %d attempts", e.Attempts)
}

// Generator produces synthetic exam datasets. The zero value is not
// usable; populate Config (usually via DefaultConfig or LoadProfile).
// Rand may be set for reproducible output; when nil each call seeds
// from the clock.
type Generator struct {
	Config Config
	Rand   *rand.Rand
}

// Generate builds count records with unique full names, sequential
// student IDs starting at 1, and scores drawn from the configured
// bands. Grades are derived from scores via the thresholds.
func (g Generator) Generate(count int) (*exam.Dataset, error) {
	if err := g.Config.Validate(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("record count must be positive, got %d", count)
	}
	if max := g.Config.MaxUnique(); count > max {
		return nil, &CapacityError{Requested: count, MaxUnique: max}
	}

	rng := g.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	seen := make(map[string]struct{}, count)
	records := make([]exam.Record, count)
	for i := range records {
		first, last, err := g.pickName(rng, seen)
		if err != nil {
			return nil, err
		}

		band := g.pickBand(rng)
		score := rollScore(rng, band)

		records[i] = exam.Record{
			StudentID: i + 1,
			FirstName: first,
			LastName:  last,
			Term:      g.Config.Terms[rng.Intn(len(g.Config.Terms))],
			Score:     score,
			Grade:     g.Config.gradeFor(score),
		}
	}

	return exam.New(records, "")
}

// GenerateFile generates count records and writes them to path as CSV.
// The returned dataset carries path as its source.
func (g Generator) GenerateFile(path string, count int) (*exam.Dataset, error) {
	ds, err := g.Generate(count)
	if err != nil {
		return nil, err
	}
	if err := csvio.WriteFile(path, ds); err != nil {
		return nil, err
	}
	return ds.WithSource(path), nil
}

// pickName draws gender, first name, and surname until the combination
// is unused. Gender is re-rolled on every attempt so a depleted pool
// does not stall the search.
func (g Generator) pickName(rng *rand.Rand, seen map[string]struct{}) (first, last string, err error) {
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		pool := g.Config.MaleNames
		if len(pool) == 0 || (len(g.Config.FemaleNames) > 0 && rng.Float64() < 0.5) {
			pool = g.Config.FemaleNames
		}
		first = pool[rng.Intn(len(pool))]
		last = g.Config.Surnames[rng.Intn(len(g.Config.Surnames))]

		key := first + " " + last
		if _, taken := seen[key]; !taken {
			seen[key] = struct{}{}
			return first, last, nil
		}
	}
	return "", "", &ExhaustedError{Attempts: maxNameAttempts}
}

// pickBand selects the first band whose up_to exceeds a uniform roll.
// The last band catches everything else.
func (g Generator) pickBand(rng *rand.Rand) Band {
	roll := rng.Float64()
	for _, b := range g.Config.Bands {
		if roll < b.UpTo {
			return b
		}
	}
	return g.Config.Bands[len(g.Config.Bands)-1]
}

// rollScore samples a normal score around the band mean and clamps it
// into the band range before rounding.
func rollScore(rng *rand.Rand, b Band) int {
	raw := rng.NormFloat64()*b.StdDev + b.Mean
	raw = math.Max(raw, float64(b.Min))
	raw = math.Min(raw, float64(b.Max))
	return int(math.Round(raw))
}
