package synth

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads a YAML generation profile and merges it over the
// defaults. Sections absent from the file keep their default values,
// so a profile may override just the terms or just the name pools.
func LoadProfile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read profile %s: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Config{}, fmt.Errorf("parse profile %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if len(overlay.MaleNames) > 0 {
		cfg.MaleNames = overlay.MaleNames
	}
	if len(overlay.FemaleNames) > 0 {
		cfg.FemaleNames = overlay.FemaleNames
	}
	if len(overlay.Surnames) > 0 {
		cfg.Surnames = overlay.Surnames
	}
	if len(overlay.Terms) > 0 {
		cfg.Terms = overlay.Terms
	}
	if len(overlay.Thresholds) > 0 {
		cfg.Thresholds = overlay.Thresholds
	}
	if len(overlay.Bands) > 0 {
		cfg.Bands = overlay.Bands
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return cfg, nil
}
