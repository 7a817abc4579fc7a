package engine

import (
	"testing"
	"time"

	"goal-progress-engine/internal/models"

	"github.com/shopspring/decimal"
)

func historyEntry(change float64, recordedAt time.Time) models.GoalProgressHistory {
	return models.GoalProgressHistory{
		ChangeAmount: decimal.NewFromFloat(change),
		RecordedAt:   recordedAt,
	}
}

func TestComputeSavingsRate_InsufficientHistory(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := [][]models.GoalProgressHistory{
		nil,
		{historyEntry(100, base)},
	}

	for _, entries := range cases {
		rate := computeSavingsRate(entries, DefaultTrendSampleSize)

		if !rate.DailyRate.IsZero() || !rate.WeeklyRate.IsZero() || !rate.MonthlyRate.IsZero() || !rate.AverageRate.IsZero() {
			t.Errorf("Expected zero rates for %d entries, got daily=%s weekly=%s monthly=%s average=%s",
				len(entries), rate.DailyRate, rate.WeeklyRate, rate.MonthlyRate, rate.AverageRate)
		}
		if rate.Trend != models.TrendStable {
			t.Errorf("Expected stable trend for %d entries, got %s", len(entries), rate.Trend)
		}
	}
}

func TestComputeSavingsRate_LinearProgress(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// +250 on day 1, +250 on day 10: 500 over a 9-day window (newest first)
	entries := []models.GoalProgressHistory{
		historyEntry(250, base.AddDate(0, 0, 10)),
		historyEntry(250, base.AddDate(0, 0, 1)),
	}

	rate := computeSavingsRate(entries, DefaultTrendSampleSize)

	expectedDaily := decimal.NewFromInt(500).Div(decimal.NewFromInt(9))
	if !rate.DailyRate.Equal(expectedDaily) {
		t.Errorf("Expected daily rate %s, got %s", expectedDaily, rate.DailyRate)
	}
	if !rate.WeeklyRate.Equal(expectedDaily.Mul(decimal.NewFromInt(7))) {
		t.Errorf("Expected weekly rate %s, got %s", expectedDaily.Mul(decimal.NewFromInt(7)), rate.WeeklyRate)
	}
	if !rate.MonthlyRate.Equal(expectedDaily.Mul(decimal.NewFromInt(30))) {
		t.Errorf("Expected monthly rate %s, got %s", expectedDaily.Mul(decimal.NewFromInt(30)), rate.MonthlyRate)
	}
	if !rate.AverageRate.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected average rate 250, got %s", rate.AverageRate)
	}
	if rate.Trend != models.TrendStable {
		t.Errorf("Expected stable trend, got %s", rate.Trend)
	}
}

func TestComputeSavingsRate_SameDayEntriesFloorAtOneDay(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	entries := []models.GoalProgressHistory{
		historyEntry(100, base.Add(2*time.Hour)),
		historyEntry(100, base),
	}

	rate := computeSavingsRate(entries, DefaultTrendSampleSize)

	// The window floors at one day, so 200 saved within hours reads as 200/day
	if !rate.DailyRate.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected daily rate 200, got %s", rate.DailyRate)
	}
}

func TestComputeSavingsRate_NegativeChanges(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	entries := []models.GoalProgressHistory{
		historyEntry(-300, base.AddDate(0, 0, 2)),
		historyEntry(100, base),
	}

	rate := computeSavingsRate(entries, DefaultTrendSampleSize)

	if !rate.DailyRate.Equal(decimal.NewFromInt(-100)) {
		t.Errorf("Expected daily rate -100, got %s", rate.DailyRate)
	}
}

func TestClassifyTrend_Increasing(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Newest five average 200, oldest five average 100
	var entries []models.GoalProgressHistory
	for i := 0; i < 5; i++ {
		entries = append(entries, historyEntry(200, base.AddDate(0, 0, 10-i)))
	}
	for i := 0; i < 5; i++ {
		entries = append(entries, historyEntry(100, base.AddDate(0, 0, 5-i)))
	}

	if trend := classifyTrend(entries, 5); trend != models.TrendIncreasing {
		t.Errorf("Expected increasing trend, got %s", trend)
	}
}

func TestClassifyTrend_Decreasing(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var entries []models.GoalProgressHistory
	for i := 0; i < 5; i++ {
		entries = append(entries, historyEntry(50, base.AddDate(0, 0, 10-i)))
	}
	for i := 0; i < 5; i++ {
		entries = append(entries, historyEntry(100, base.AddDate(0, 0, 5-i)))
	}

	if trend := classifyTrend(entries, 5); trend != models.TrendDecreasing {
		t.Errorf("Expected decreasing trend, got %s", trend)
	}
}

func TestClassifyTrend_StableWithinBand(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// 105 vs 100 is inside the 10% band
	var entries []models.GoalProgressHistory
	for i := 0; i < 5; i++ {
		entries = append(entries, historyEntry(105, base.AddDate(0, 0, 10-i)))
	}
	for i := 0; i < 5; i++ {
		entries = append(entries, historyEntry(100, base.AddDate(0, 0, 5-i)))
	}

	if trend := classifyTrend(entries, 5); trend != models.TrendStable {
		t.Errorf("Expected stable trend, got %s", trend)
	}
}

func TestClassifyTrend_ShortWindow(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// With fewer entries than the sample size, both slices cover the whole
	// window and the trend reads stable.
	entries := []models.GoalProgressHistory{
		historyEntry(300, base.AddDate(0, 0, 2)),
		historyEntry(100, base.AddDate(0, 0, 1)),
		historyEntry(200, base),
	}

	if trend := classifyTrend(entries, 5); trend != models.TrendStable {
		t.Errorf("Expected stable trend for short window, got %s", trend)
	}
}
