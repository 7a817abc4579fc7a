package common

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v2"
)

// MilestoneSchedule defines the percentage checkpoints created with every
// goal. The schedule must end at 100 so goal completion is always a
// milestone.
type MilestoneSchedule struct {
	Percentages []int64 `yaml:"percentages"`
}

// LoadMilestoneSchedule reads a milestone schedule from a yaml file and
// validates it: percentages must be unique, in (0, 100], and include 100.
// The returned slice is sorted ascending.
func LoadMilestoneSchedule(scheduleFile string) ([]int64, error) {
	var schedulePath string
	if filepath.IsAbs(scheduleFile) {
		schedulePath = scheduleFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		schedulePath = filepath.Join(wd, scheduleFile)
	}

	data, err := os.ReadFile(schedulePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", scheduleFile, err)
	}

	var schedule MilestoneSchedule
	if err := yaml.Unmarshal(data, &schedule); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", scheduleFile, err)
	}

	if len(schedule.Percentages) == 0 {
		return nil, fmt.Errorf("%s defines no milestone percentages", scheduleFile)
	}

	seen := make(map[int64]bool, len(schedule.Percentages))
	hasCompletion := false
	for _, pct := range schedule.Percentages {
		if pct <= 0 || pct > 100 {
			return nil, fmt.Errorf("milestone percentage %d out of range (0, 100]", pct)
		}
		if seen[pct] {
			return nil, fmt.Errorf("duplicate milestone percentage %d", pct)
		}
		seen[pct] = true
		if pct == 100 {
			hasCompletion = true
		}
	}
	if !hasCompletion {
		return nil, fmt.Errorf("milestone schedule must include 100")
	}

	percentages := append([]int64(nil), schedule.Percentages...)
	sort.Slice(percentages, func(i, j int) bool { return percentages[i] < percentages[j] })

	return percentages, nil
}
