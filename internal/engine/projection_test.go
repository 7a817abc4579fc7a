package engine

import (
	"testing"
	"time"

	"goal-progress-engine/internal/models"

	"github.com/shopspring/decimal"
)

func fixedClockEngine(at time.Time) *Engine {
	e := New(nil, models.EngineConfig{}, nil)
	e.now = func() time.Time { return at }
	return e
}

func TestRequiredDailyRate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	rate := requiredDailyRate(decimal.Zero, decimal.NewFromInt(1000), now.AddDate(0, 0, 10), now)
	if !rate.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected required daily rate 100, got %s", rate)
	}
}

func TestRequiredDailyRate_PastDueFloorsAtOneDay(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Target date already passed: the whole remaining amount is due in one day
	rate := requiredDailyRate(decimal.NewFromInt(400), decimal.NewFromInt(1000), now.AddDate(0, 0, -5), now)
	if !rate.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected required daily rate 600, got %s", rate)
	}
}

func TestIsGoalOnTrack(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := fixedClockEngine(now)

	target := decimal.NewFromInt(1000)
	targetDate := now.AddDate(0, 0, 10)

	if !e.IsGoalOnTrack(decimal.Zero, target, targetDate, decimal.NewFromInt(100)) {
		t.Error("Expected goal saving exactly the required rate to be on track")
	}
	if e.IsGoalOnTrack(decimal.Zero, target, targetDate, decimal.NewFromInt(99)) {
		t.Error("Expected goal saving below the required rate to be behind")
	}
}

func TestIsGoalOnTrack_NothingRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := fixedClockEngine(now)

	target := decimal.NewFromInt(1000)

	// Fully funded and overfunded goals are on track even with a negative rate
	if !e.IsGoalOnTrack(target, target, now.AddDate(0, 0, 10), decimal.NewFromInt(-50)) {
		t.Error("Expected fully funded goal to be on track")
	}
	if !e.IsGoalOnTrack(decimal.NewFromInt(1500), target, now.AddDate(0, 0, -10), decimal.Zero) {
		t.Error("Expected overfunded past-due goal to be on track")
	}
}

func TestConfidenceLevel(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	cases := []struct {
		name     string
		rate     models.SavingsRate
		expected int
	}{
		{
			name:     "stable and consistent",
			rate:     models.SavingsRate{DailyRate: hundred, AverageRate: hundred, Trend: models.TrendStable},
			expected: 70,
		},
		{
			name:     "increasing trend caps at 100",
			rate:     models.SavingsRate{DailyRate: hundred, AverageRate: hundred, Trend: models.TrendIncreasing},
			expected: 100,
		},
		{
			name:     "decreasing trend",
			rate:     models.SavingsRate{DailyRate: hundred, AverageRate: hundred, Trend: models.TrendDecreasing},
			expected: 50,
		},
		{
			name:     "inconsistent rates earn no consistency points",
			rate:     models.SavingsRate{DailyRate: decimal.Zero, AverageRate: hundred, Trend: models.TrendStable},
			expected: 50,
		},
		{
			name:     "wildly inconsistent decreasing floors at 0",
			rate:     models.SavingsRate{DailyRate: decimal.NewFromInt(450), AverageRate: hundred, Trend: models.TrendDecreasing},
			expected: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := confidenceLevel(&tc.rate); got != tc.expected {
				t.Errorf("Expected confidence %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestProjectionSeries(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := fixedClockEngine(now)

	goal := &models.SavingsGoal{
		CurrentAmount: decimal.NewFromInt(100),
		TargetAmount:  decimal.NewFromInt(1000),
		TargetDate:    now.AddDate(0, 0, 60),
	}

	points := e.projectionSeries(goal, decimal.NewFromInt(10), now)

	if len(points) != 2 {
		t.Fatalf("Expected 2 projection points for a 60-day window, got %d", len(points))
	}
	if points[0].Month != 1 || points[1].Month != 2 {
		t.Errorf("Expected months 1 and 2, got %d and %d", points[0].Month, points[1].Month)
	}
	if !points[0].ProjectedAmount.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected first projected amount 400, got %s", points[0].ProjectedAmount)
	}
	if !points[1].ProjectedAmount.Equal(decimal.NewFromInt(700)) {
		t.Errorf("Expected second projected amount 700, got %s", points[1].ProjectedAmount)
	}
	if !points[0].MonthlyTarget.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected first monthly target 500, got %s", points[0].MonthlyTarget)
	}
	if !points[1].MonthlyTarget.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected final monthly target 1000, got %s", points[1].MonthlyTarget)
	}
	if !points[1].Date.Equal(now.AddDate(0, 0, 60)) {
		t.Errorf("Expected final point date %s, got %s", now.AddDate(0, 0, 60), points[1].Date)
	}
}

func TestProjectionSeries_CapsAtTarget(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := fixedClockEngine(now)

	goal := &models.SavingsGoal{
		CurrentAmount: decimal.NewFromInt(100),
		TargetAmount:  decimal.NewFromInt(1000),
		TargetDate:    now.AddDate(0, 0, 60),
	}

	// 20/day overshoots in month two; the curve must flatten at the target
	points := e.projectionSeries(goal, decimal.NewFromInt(20), now)

	if len(points) != 2 {
		t.Fatalf("Expected 2 projection points, got %d", len(points))
	}
	if !points[1].ProjectedAmount.Equal(goal.TargetAmount) {
		t.Errorf("Expected projected amount capped at %s, got %s", goal.TargetAmount, points[1].ProjectedAmount)
	}
}

func TestProjectionSeries_PastTargetDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := fixedClockEngine(now)

	goal := &models.SavingsGoal{
		CurrentAmount: decimal.NewFromInt(100),
		TargetAmount:  decimal.NewFromInt(1000),
		TargetDate:    now.AddDate(0, 0, -1),
	}

	if points := e.projectionSeries(goal, decimal.NewFromInt(10), now); points != nil {
		t.Errorf("Expected no projection series past the target date, got %d points", len(points))
	}
}

func TestProgressPercentage(t *testing.T) {
	cases := []struct {
		name     string
		current  decimal.Decimal
		target   decimal.Decimal
		expected decimal.Decimal
	}{
		{"halfway", decimal.NewFromInt(500), decimal.NewFromInt(1000), decimal.NewFromInt(50)},
		{"overfunded clamps to 100", decimal.NewFromInt(1500), decimal.NewFromInt(1000), decimal.NewFromInt(100)},
		{"negative balance clamps to 0", decimal.NewFromInt(-200), decimal.NewFromInt(1000), decimal.Zero},
		{"zero target resolves to 0", decimal.NewFromInt(500), decimal.Zero, decimal.Zero},
		{"negative target resolves to 0", decimal.NewFromInt(500), decimal.NewFromInt(-100), decimal.Zero},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := progressPercentage(tc.current, tc.target); !got.Equal(tc.expected) {
				t.Errorf("Expected %s%%, got %s%%", tc.expected, got)
			}
		})
	}
}
