// Package synth generates plausible exam result datasets for demos,
// load tests, and seeding fresh environments.
package synth

import (
	"fmt"
	"strings"
)

// Band describes one segment of the score distribution. A roll in
// [previous UpTo, UpTo) draws a normally distributed score around Mean
// and clamps it into [Min, Max].
type Band struct {
	UpTo   float64 `yaml:"up_to"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
	Min    int     `yaml:"min"`
	Max    int     `yaml:"max"`
}

// Config holds the name pools and score distribution used by a
// Generator. Profiles loaded from YAML override individual sections;
// anything left empty keeps the default.
type Config struct {
	MaleNames   []string    `yaml:"male_names"`
	FemaleNames []string    `yaml:"female_names"`
	Surnames    []string    `yaml:"surnames"`
	Terms       []string    `yaml:"terms"`
	Thresholds  map[int]int `yaml:"grade_thresholds"`
	Bands       []Band      `yaml:"score_bands"`
}

// DefaultConfig returns the built-in generation profile: Croatian name
// pools, the four standard exam terms, and a score distribution skewed
// toward the middle grades.
func DefaultConfig() Config {
	return Config{
		MaleNames: []string{
			"Luka", "Ivan", "Marko", "Petar", "Josip", "Matej", "Filip",
			"Ante", "Tomislav", "Karlo", "Leon", "David", "Antonio",
			"Nikola", "Fran", "Lovro", "Borna", "Domagoj", "Tin", "Jan",
			"Roko", "Matija", "Jakov", "Andrija", "Marin", "Bruno", "Leo",
		},
		FemaleNames: []string{
			"Ana", "Marija", "Ivana", "Petra", "Lucija", "Maja", "Sara",
			"Lana", "Eva", "Ema", "Mia", "Nika", "Lara", "Nina", "Tea",
			"Lea", "Paula", "Helena", "Karla", "Marta", "Katarina",
			"Valentina", "Klara", "Gabriela", "Nikolina",
		},
		Surnames: []string{
			"Horvat", "Kovačević", "Babić", "Marić", "Novak", "Jurić",
			"Kovač", "Knežević", "Vuković", "Božić", "Blažević", "Perić",
			"Tomić", "Matić", "Pavlović", "Radić", "Šimić", "Nikolić",
			"Grgić", "Filipović", "Barić", "Lončar", "Pavić", "Šarić",
			"Jakić", "Klarić", "Vidović", "Mihaljević", "Tadić", "Lovrić",
			"Petrović",
		},
		Terms: []string{"2025-01", "2025-02", "2025-06", "2025-09"},
		Thresholds: map[int]int{
			5: 90,
			4: 80,
			3: 65,
			2: 50,
			1: 0,
		},
		Bands: []Band{
			{UpTo: 0.15, Mean: 25, StdDev: 10, Min: 0, Max: 49},
			{UpTo: 0.30, Mean: 55, StdDev: 8, Min: 50, Max: 64},
			{UpTo: 0.55, Mean: 70, StdDev: 6, Min: 65, Max: 79},
			{UpTo: 0.80, Mean: 85, StdDev: 5, Min: 80, Max: 89},
			{UpTo: 1.00, Mean: 93, StdDev: 4, Min: 90, Max: 100},
		},
	}
}

// MaxUnique is the number of distinct full names this config can
// produce, which caps how many records Generate can emit.
func (c Config) MaxUnique() int {
	return (len(c.MaleNames) + len(c.FemaleNames)) * len(c.Surnames)
}

// Validate checks that the config can actually drive generation.
func (c Config) Validate() error {
	var errs []string

	if len(c.MaleNames) == 0 && len(c.FemaleNames) == 0 {
		errs = append(errs, "at least one first-name pool must be non-empty")
	}
	if len(c.Surnames) == 0 {
		errs = append(errs, "surname pool is empty")
	}
	if len(c.Terms) == 0 {
		errs = append(errs, "term list is empty")
	}
	if len(c.Thresholds) == 0 {
		errs = append(errs, "grade thresholds are empty")
	}
	for grade, min := range c.Thresholds {
		if grade < 1 || grade > 5 {
			errs = append(errs, fmt.Sprintf("threshold grade %d outside 1-5", grade))
		}
		if min < 0 || min > 100 {
			errs = append(errs, fmt.Sprintf("threshold for grade %d is %d, outside 0-100", grade, min))
		}
	}
	if len(c.Bands) == 0 {
		errs = append(errs, "score bands are empty")
	}
	prev := 0.0
	for i, b := range c.Bands {
		if b.UpTo <= prev {
			errs = append(errs, fmt.Sprintf("band %d: up_to %.2f must increase", i, b.UpTo))
		}
		prev = b.UpTo
		if b.Min > b.Max {
			errs = append(errs, fmt.Sprintf("band %d: min %d greater than max %d", i, b.Min, b.Max))
		}
		if b.Min < 0 || b.Max > 100 {
			errs = append(errs, fmt.Sprintf("band %d: range %d-%d outside 0-100", i, b.Min, b.Max))
		}
		if b.StdDev < 0 {
			errs = append(errs, fmt.Sprintf("band %d: negative std_dev %.2f", i, b.StdDev))
		}
	}
	if n := len(c.Bands); n > 0 && c.Bands[n-1].UpTo < 1 {
		errs = append(errs, fmt.Sprintf("last band up_to %.2f leaves rolls uncovered, must reach 1.0", c.Bands[n-1].UpTo))
	}

	if len(errs) > 0 {
		return fmt.Errorf("generator config invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}

// gradeFor maps a score to a grade by scanning thresholds from best to
// worst. Scores below every threshold fall back to the lowest grade.
func (c Config) gradeFor(score int) int {
	for grade := 5; grade >= 1; grade-- {
		min, ok := c.Thresholds[grade]
		if ok && score >= min {
			return grade
		}
	}
	return 1
}
