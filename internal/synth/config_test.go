package synth

import (
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := cfg.MaxUnique(); got != 1612 {
		t.Errorf("MaxUnique() = %d, want 1612", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "no first names",
			mutate: func(c *Config) { c.MaleNames = nil; c.FemaleNames = nil },
			want:   "first-name",
		},
		{
			name:   "no surnames",
			mutate: func(c *Config) { c.Surnames = nil },
			want:   "surname",
		},
		{
			name:   "no terms",
			mutate: func(c *Config) { c.Terms = nil },
			want:   "term",
		},
		{
			name:   "no thresholds",
			mutate: func(c *Config) { c.Thresholds = nil },
			want:   "threshold",
		},
		{
			name:   "threshold grade out of range",
			mutate: func(c *Config) { c.Thresholds[6] = 95 },
			want:   "grade 6",
		},
		{
			name:   "threshold value out of range",
			mutate: func(c *Config) { c.Thresholds[5] = 101 },
			want:   "outside 0-100",
		},
		{
			name:   "no bands",
			mutate: func(c *Config) { c.Bands = nil },
			want:   "bands",
		},
		{
			name: "bands not ascending",
			mutate: func(c *Config) {
				c.Bands = []Band{
					{UpTo: 0.5, Mean: 50, StdDev: 5, Min: 0, Max: 100},
					{UpTo: 0.4, Mean: 80, StdDev: 5, Min: 0, Max: 100},
					{UpTo: 1.0, Mean: 90, StdDev: 5, Min: 0, Max: 100},
				}
			},
			want: "must increase",
		},
		{
			name: "band min above max",
			mutate: func(c *Config) {
				c.Bands = []Band{{UpTo: 1.0, Mean: 50, StdDev: 5, Min: 60, Max: 40}}
			},
			want: "greater than max",
		},
		{
			name: "band outside score range",
			mutate: func(c *Config) {
				c.Bands = []Band{{UpTo: 1.0, Mean: 50, StdDev: 5, Min: 0, Max: 120}}
			},
			want: "outside 0-100",
		},
		{
			name: "negative std dev",
			mutate: func(c *Config) {
				c.Bands = []Band{{UpTo: 1.0, Mean: 50, StdDev: -1, Min: 0, Max: 100}}
			},
			want: "std_dev",
		},
		{
			name: "last band leaves gap",
			mutate: func(c *Config) {
				c.Bands = []Band{{UpTo: 0.9, Mean: 50, StdDev: 5, Min: 0, Max: 100}}
			},
			want: "must reach 1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestGradeFor(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		score int
		want  int
	}{
		{100, 5},
		{90, 5},
		{89, 4},
		{80, 4},
		{79, 3},
		{65, 3},
		{64, 2},
		{50, 2},
		{49, 1},
		{0, 1},
	}
	for _, tt := range tests {
		if got := cfg.gradeFor(tt.score); got != tt.want {
			t.Errorf("gradeFor(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestGradeFor_SparseThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds = map[int]int{5: 90, 3: 60}

	if got := cfg.gradeFor(95); got != 5 {
		t.Errorf("gradeFor(95) = %d, want 5", got)
	}
	if got := cfg.gradeFor(70); got != 3 {
		t.Errorf("gradeFor(70) = %d, want 3", got)
	}
	if got := cfg.gradeFor(10); got != 1 {
		t.Errorf("gradeFor(10) = %d, want fallback grade 1", got)
	}
}
