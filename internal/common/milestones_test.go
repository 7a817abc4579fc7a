package common

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScheduleFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "milestones.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write schedule file: %v", err)
	}
	return path
}

func TestLoadMilestoneSchedule(t *testing.T) {
	path := writeScheduleFile(t, "percentages: [50, 10, 100, 75]\n")

	percentages, err := LoadMilestoneSchedule(path)
	if err != nil {
		t.Fatalf("LoadMilestoneSchedule failed: %v", err)
	}

	expected := []int64{10, 50, 75, 100}
	if len(percentages) != len(expected) {
		t.Fatalf("Expected %d percentages, got %d", len(expected), len(percentages))
	}
	for i, pct := range expected {
		if percentages[i] != pct {
			t.Errorf("Expected sorted percentage %d at index %d, got %d", pct, i, percentages[i])
		}
	}
}

func TestLoadMilestoneSchedule_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty schedule", "percentages: []\n"},
		{"zero percentage", "percentages: [0, 100]\n"},
		{"over 100", "percentages: [50, 101]\n"},
		{"duplicate", "percentages: [50, 50, 100]\n"},
		{"missing completion checkpoint", "percentages: [25, 50, 75]\n"},
		{"not yaml", "{{{\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeScheduleFile(t, tc.content)
			if _, err := LoadMilestoneSchedule(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadMilestoneSchedule_MissingFile(t *testing.T) {
	if _, err := LoadMilestoneSchedule(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}
