package engine

import (
	"context"

	"goal-progress-engine/internal/models"

	"github.com/shopspring/decimal"
)

var (
	daysPerWeek  = decimal.NewFromInt(7)
	daysPerMonth = decimal.NewFromInt(30)

	// A trend is only called increasing/decreasing when the recent mean
	// moves more than 10% past the older mean; anything inside the band
	// reads as stable.
	trendUpFactor   = decimal.NewFromFloat(1.1)
	trendDownFactor = decimal.NewFromFloat(0.9)
)

// CalculateSavingsRate estimates the goal's savings velocity from its most
// recent history entries. This is intentionally a simple windowed model,
// not a time-series fit: responsiveness and explainability win over
// precision here.
func (e *Engine) CalculateSavingsRate(ctx context.Context, goalId string) (*models.SavingsRate, error) {
	entries, err := e.store.GetRecentHistory(ctx, goalId, e.cfg.RateWindowSize)
	if err != nil {
		return nil, err
	}

	rate := computeSavingsRate(entries, e.cfg.TrendSampleSize)
	return &rate, nil
}

// computeSavingsRate derives daily/weekly/monthly velocity and a trend
// classification from history entries ordered newest first. Fewer than two
// entries is a defined degenerate case: zero rates, stable trend.
func computeSavingsRate(entries []models.GoalProgressHistory, trendSampleSize int) models.SavingsRate {
	if len(entries) < 2 {
		return models.SavingsRate{
			DailyRate:   decimal.Zero,
			WeeklyRate:  decimal.Zero,
			MonthlyRate: decimal.Zero,
			AverageRate: decimal.Zero,
			Trend:       models.TrendStable,
			SampleCount: len(entries),
		}
	}

	totalChange := decimal.Zero
	for _, entry := range entries {
		totalChange = totalChange.Add(entry.ChangeAmount)
	}

	newest := entries[0].RecordedAt
	oldest := entries[len(entries)-1].RecordedAt
	days := int64(newest.Sub(oldest).Hours() / 24)
	if days < 1 {
		days = 1
	}

	dailyRate := totalChange.Div(decimal.NewFromInt(days))

	return models.SavingsRate{
		DailyRate:   dailyRate,
		WeeklyRate:  dailyRate.Mul(daysPerWeek),
		MonthlyRate: dailyRate.Mul(daysPerMonth),
		AverageRate: totalChange.Div(decimal.NewFromInt(int64(len(entries)))),
		Trend:       classifyTrend(entries, trendSampleSize),
		SampleCount: len(entries),
	}
}

// classifyTrend compares the mean change of the newest sample against the
// mean change of the oldest sample in the window. With fewer entries than
// the sample size the slices are simply shorter.
func classifyTrend(entries []models.GoalProgressHistory, sampleSize int) models.TrendDirection {
	if sampleSize > len(entries) {
		sampleSize = len(entries)
	}

	recent := meanChange(entries[:sampleSize])
	older := meanChange(entries[len(entries)-sampleSize:])

	switch {
	case recent.GreaterThan(older.Mul(trendUpFactor)):
		return models.TrendIncreasing
	case recent.LessThan(older.Mul(trendDownFactor)):
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

func meanChange(entries []models.GoalProgressHistory) decimal.Decimal {
	if len(entries) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, entry := range entries {
		sum = sum.Add(entry.ChangeAmount)
	}
	return sum.Div(decimal.NewFromInt(int64(len(entries))))
}
