package engine

import (
	"context"
	"math"
	"time"

	"goal-progress-engine/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// A goal with no positive velocity never completes at the current rate; its
// projected date is pushed out to this horizon instead of overflowing time
// arithmetic.
const neverHorizonYears = 100

// Confidence scoring weights.
var (
	confidenceBase        = decimal.NewFromInt(50)
	confidenceTrendUp     = decimal.NewFromInt(30)
	confidenceTrendDown   = decimal.NewFromInt(20)
	confidenceConsistency = decimal.NewFromInt(20)
)

func wholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// requiredDailyRate is the velocity needed to close the remaining amount by
// the target date. The day count floors at one so past-due goals do not
// divide by zero.
func requiredDailyRate(currentAmount, targetAmount decimal.Decimal, targetDate, now time.Time) decimal.Decimal {
	remaining := targetAmount.Sub(currentAmount)
	daysRemaining := wholeDaysBetween(now, targetDate)
	if daysRemaining < 1 {
		daysRemaining = 1
	}
	return remaining.Div(decimal.NewFromInt(int64(daysRemaining)))
}

// IsGoalOnTrack reports whether the actual daily velocity meets the
// required one. A goal with nothing remaining is trivially on track
// regardless of the rate's sign.
func (e *Engine) IsGoalOnTrack(currentAmount, targetAmount decimal.Decimal, targetDate time.Time, dailyRate decimal.Decimal) bool {
	remaining := targetAmount.Sub(currentAmount)
	if !remaining.IsPositive() {
		return true
	}
	return dailyRate.GreaterThanOrEqual(requiredDailyRate(currentAmount, targetAmount, targetDate, e.now()))
}

// GetTimelineProjection extrapolates the estimated savings velocity to a
// projected completion date with a confidence score, schedule variance, and
// a monthly projection series against the linear target line.
func (e *Engine) GetTimelineProjection(ctx context.Context, goalId, userId string) (*models.TimelineProjection, error) {
	goal, err := e.store.GetGoal(ctx, goalId, userId)
	if err != nil {
		return nil, err
	}

	rate, err := e.CalculateSavingsRate(ctx, goalId)
	if err != nil {
		return nil, err
	}

	now := e.now()
	remaining := goal.TargetAmount.Sub(goal.CurrentAmount)

	var projectedCompletion time.Time
	completes := true
	switch {
	case !remaining.IsPositive():
		projectedCompletion = now
	case rate.DailyRate.IsPositive():
		daysToComplete := remaining.Div(rate.DailyRate)
		projectedCompletion = now.AddDate(0, 0, int(math.Ceil(daysToComplete.InexactFloat64())))
	default:
		// Zero or negative velocity: the goal never completes at this rate.
		projectedCompletion = now.AddDate(neverHorizonYears, 0, 0)
		completes = false
	}

	varianceInDays := wholeDaysBetween(goal.TargetDate, projectedCompletion)
	requiredDaily := requiredDailyRate(goal.CurrentAmount, goal.TargetAmount, goal.TargetDate, now)

	projection := &models.TimelineProjection{
		GoalId:                  goal.Id,
		CurrentAmount:           goal.CurrentAmount,
		TargetAmount:            goal.TargetAmount,
		RemainingAmount:         remaining,
		TargetDate:              goal.TargetDate,
		ProjectedCompletionDate: projectedCompletion,
		CompletesAtCurrentRate:  completes,
		VarianceInDays:          varianceInDays,
		IsOnTrack:               varianceInDays <= 0,
		ConfidenceLevel:         confidenceLevel(rate),
		SavingsRate:             *rate,
		RequiredDailyRate:       requiredDaily,
		RequiredMonthlySavings:  requiredDaily.Mul(daysPerMonth),
		ProjectionData:          e.projectionSeries(goal, rate.DailyRate, now),
	}

	zap.L().Debug("Timeline projection computed",
		zap.String("goal_id", goal.Id),
		zap.Time("projected_completion", projectedCompletion),
		zap.Int("variance_days", varianceInDays),
		zap.Int("confidence", projection.ConfidenceLevel))

	return projection, nil
}

// confidenceLevel scores how reliable the projection is: base 50, adjusted
// for trend direction, plus up to 20 points for consistency between the
// windowed daily rate and the per-entry average.
func confidenceLevel(rate *models.SavingsRate) int {
	confidence := confidenceBase

	switch rate.Trend {
	case models.TrendIncreasing:
		confidence = confidence.Add(confidenceTrendUp)
	case models.TrendDecreasing:
		confidence = confidence.Sub(confidenceTrendDown)
	}

	denominator := decimal.Max(rate.AverageRate, decimal.NewFromInt(1))
	consistency := rate.DailyRate.Sub(rate.AverageRate).Abs().Div(denominator)
	confidence = confidence.Add(decimal.NewFromInt(1).Sub(consistency).Mul(confidenceConsistency))

	if confidence.IsNegative() {
		return 0
	}
	if confidence.GreaterThan(oneHundred) {
		return 100
	}
	return int(confidence.Round(0).IntPart())
}

// projectionSeries produces one point per 30-day step from today through
// the target date: the projected curve at the current velocity, capped at
// the target, next to a naive linear target line.
func (e *Engine) projectionSeries(goal *models.SavingsGoal, dailyRate decimal.Decimal, now time.Time) []models.ProjectionPoint {
	daysToTarget := wholeDaysBetween(now, goal.TargetDate)
	if daysToTarget <= 0 {
		return nil
	}

	monthsToTarget := int(math.Ceil(float64(daysToTarget) / 30))
	monthlyRate := dailyRate.Mul(daysPerMonth)
	monthlyTargetStep := goal.TargetAmount.Div(decimal.NewFromInt(int64(monthsToTarget)))

	points := make([]models.ProjectionPoint, 0, monthsToTarget)
	for month := 1; month <= monthsToTarget; month++ {
		step := decimal.NewFromInt(int64(month))
		projected := goal.CurrentAmount.Add(monthlyRate.Mul(step))
		if projected.GreaterThan(goal.TargetAmount) {
			projected = goal.TargetAmount
		}

		points = append(points, models.ProjectionPoint{
			Month:           month,
			Date:            now.AddDate(0, 0, 30*month),
			ProjectedAmount: projected,
			MonthlyTarget:   monthlyTargetStep.Mul(step),
		})
	}

	return points
}
