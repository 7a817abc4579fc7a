package engine

import (
	"context"

	"goal-progress-engine/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// How many milestones the analytics rollup surfaces on each side
// (upcoming and recently achieved).
const milestoneSummaryLimit = 5

// GetGoalAnalytics rolls all of a user's goals up into portfolio-level
// totals, classifies each active goal's pace, and surfaces near-term
// milestones and recent achievements. Upcoming milestones are ordered by
// percentage ascending, a deliberately coarse proxy for proximity.
func (e *Engine) GetGoalAnalytics(ctx context.Context, userId string) (*models.GoalAnalytics, error) {
	goals, err := e.store.GetUserGoals(ctx, userId)
	if err != nil {
		return nil, err
	}

	analytics := &models.GoalAnalytics{
		TotalGoals:         len(goals),
		TotalTargetAmount:  decimal.Zero,
		TotalCurrentAmount: decimal.Zero,
		AverageProgress:    decimal.Zero,
		GoalPace:           make(map[string]models.PaceStatus),
	}

	for _, goal := range goals {
		analytics.TotalTargetAmount = analytics.TotalTargetAmount.Add(goal.TargetAmount)
		analytics.TotalCurrentAmount = analytics.TotalCurrentAmount.Add(goal.CurrentAmount)

		switch goal.Status {
		case models.GoalStatusActive:
			analytics.ActiveGoals++
		case models.GoalStatusCompleted:
			analytics.CompletedGoals++
		}
	}

	if analytics.TotalTargetAmount.IsPositive() {
		analytics.AverageProgress = analytics.TotalCurrentAmount.
			Div(analytics.TotalTargetAmount).Mul(oneHundred)
	}

	for _, goal := range goals {
		if goal.Status != models.GoalStatusActive {
			continue
		}

		rate, err := e.CalculateSavingsRate(ctx, goal.Id)
		if err != nil {
			return nil, err
		}

		if e.IsGoalOnTrack(goal.CurrentAmount, goal.TargetAmount, goal.TargetDate, rate.DailyRate) {
			analytics.OnTrackGoals++
			analytics.GoalPace[goal.Id] = models.PaceOnTrack
		} else {
			analytics.BehindGoals++
			analytics.GoalPace[goal.Id] = models.PaceBehind
		}
	}

	analytics.UpcomingMilestones, err = e.store.GetUpcomingMilestones(ctx, userId, milestoneSummaryLimit)
	if err != nil {
		return nil, err
	}

	analytics.RecentAchievements, err = e.store.GetRecentAchievements(ctx, userId, milestoneSummaryLimit)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("Goal analytics computed",
		zap.String("user_id", userId),
		zap.Int("total_goals", analytics.TotalGoals),
		zap.Int("on_track", analytics.OnTrackGoals),
		zap.Int("behind", analytics.BehindGoals))

	return analytics, nil
}
