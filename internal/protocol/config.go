package protocol

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadThresholds reads threshold overrides from a YAML file.
//
// The file may override any subset of cutoffs; omitted or zero fields keep
// their defaults:
//
//	user_id_driven: 24764
//	tracker_present: 25604
//	high_build: 70000
func LoadThresholds(path string) (Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("read thresholds config: %w", err)
	}
	return ParseThresholds(data)
}

// ParseThresholds parses YAML threshold overrides on top of the defaults.
func ParseThresholds(data []byte) (Thresholds, error) {
	var overrides Thresholds
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Thresholds{}, fmt.Errorf("parse thresholds config: %w", err)
	}

	t := DefaultThresholds()
	if overrides.UserIDDriven > 0 {
		t.UserIDDriven = overrides.UserIDDriven
	}
	if overrides.WorkingSlots > 0 {
		t.WorkingSlots = overrides.WorkingSlots
	}
	if overrides.TrackerPresent > 0 {
		t.TrackerPresent = overrides.TrackerPresent
	}
	if overrides.TrackerPlayerID > 0 {
		t.TrackerPlayerID = overrides.TrackerPlayerID
	}
	if overrides.HighBuild > 0 {
		t.HighBuild = overrides.HighBuild
	}
	return t, nil
}
