package main

import (
	"context"
	"flag"
	"fmt"

	"goal-progress-engine/internal/common"
	"goal-progress-engine/internal/config"
	"goal-progress-engine/internal/engine"
	"goal-progress-engine/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func printGoal(ctx context.Context, goalEngine *engine.Engine, goal models.SavingsGoal, userId string, logger *zap.Logger) {
	pct := 0.0
	if goal.TargetAmount.IsPositive() {
		pct, _ = goal.CurrentAmount.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	}

	fmt.Printf("\n┌─ Goal: %s [%s, priority %d]\n", goal.Name, goal.Status, goal.Priority)
	fmt.Printf("│  %s %s / %s (%.1f%%)\n",
		common.ProgressBar(pct, 30), goal.CurrentAmount.StringFixed(2), goal.TargetAmount.StringFixed(2), pct)
	common.PrintBoxSeparator(common.DefaultWidth - 2)

	projection, err := goalEngine.GetTimelineProjection(ctx, goal.Id, userId)
	if err != nil {
		logger.Error("Failed to compute projection", zap.String("goal_id", goal.Id), zap.Error(err))
		return
	}

	rate := projection.SavingsRate
	fmt.Printf("│  Velocity:   %s/day  %s/week  %s/month (trend: %s)\n",
		rate.DailyRate.StringFixed(2), rate.WeeklyRate.StringFixed(2),
		rate.MonthlyRate.StringFixed(2), rate.Trend)
	fmt.Printf("│  Required:   %s/day (%s/month) by %s\n",
		projection.RequiredDailyRate.StringFixed(2),
		projection.RequiredMonthlySavings.StringFixed(2),
		projection.TargetDate.Format("2006-01-02"))

	if projection.CompletesAtCurrentRate {
		fmt.Printf("│  Projected:  complete %s (variance %+d days)\n",
			projection.ProjectedCompletionDate.Format("2006-01-02"), projection.VarianceInDays)
	} else {
		fmt.Printf("│  Projected:  never at current velocity\n")
	}

	status := "BEHIND"
	if projection.IsOnTrack {
		status = "ON TRACK"
	}
	fmt.Printf("└  Status:     %s (confidence %d/100)\n", status, projection.ConfidenceLevel)
}

func printAnalytics(analytics *models.GoalAnalytics) {
	common.PrintHeader("PORTFOLIO", common.DefaultWidth)
	fmt.Printf("Goals:            %d total, %d active, %d completed\n",
		analytics.TotalGoals, analytics.ActiveGoals, analytics.CompletedGoals)
	fmt.Printf("Saved:            %s of %s (%s%%)\n",
		analytics.TotalCurrentAmount.StringFixed(2),
		analytics.TotalTargetAmount.StringFixed(2),
		analytics.AverageProgress.StringFixed(2))
	fmt.Printf("Pace:             %d on track, %d behind\n",
		analytics.OnTrackGoals, analytics.BehindGoals)

	if len(analytics.UpcomingMilestones) > 0 {
		fmt.Println("\nUpcoming milestones:")
		for i, m := range analytics.UpcomingMilestones {
			fmt.Printf("%s %3d%% of %q at %s\n",
				common.BoxPrefix(i == len(analytics.UpcomingMilestones)-1),
				m.Percentage, m.GoalName, m.TargetAmount.StringFixed(2))
		}
	}

	if len(analytics.RecentAchievements) > 0 {
		fmt.Println("\nRecent achievements:")
		for i, m := range analytics.RecentAchievements {
			achievedAt := "unknown"
			if m.AchievedAt != nil {
				achievedAt = m.AchievedAt.Format("2006-01-02")
			}
			fmt.Printf("%s %3d%% of %q on %s\n",
				common.BoxPrefix(i == len(analytics.RecentAchievements)-1),
				m.Percentage, m.GoalName, achievedAt)
		}
	}
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Filter by specific user email (optional)")
	flag.Parse()

	logger.Info("Starting goal report")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	goalStore, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize goal store", zap.Error(err))
	}
	defer goalStore.Close()

	users, err := common.InitializeUsers(ctx, goalStore, *emailFlag, logger)
	if err != nil {
		logger.Fatal("Failed to initialize users", zap.Error(err))
	}

	goalEngine := engine.New(goalStore, cfg.Engine, nil)

	common.PrintHeader("SAVINGS GOAL REPORT", common.DefaultWidth)

	for _, user := range users {
		goals, err := goalStore.GetUserGoals(ctx, user.Id)
		if err != nil {
			logger.Error("Failed to load goals", zap.String("user_id", user.Id), zap.Error(err))
			continue
		}
		if len(goals) == 0 {
			continue
		}

		fmt.Printf("\n══ %s <%s> ══\n", user.Name, user.Email)
		for _, goal := range goals {
			printGoal(ctx, goalEngine, goal, user.Id, logger)
		}

		analytics, err := goalEngine.GetGoalAnalytics(ctx, user.Id)
		if err != nil {
			logger.Error("Failed to compute analytics", zap.String("user_id", user.Id), zap.Error(err))
			continue
		}
		printAnalytics(analytics)
	}

	common.PrintFooter("Report complete", common.DefaultWidth)
	logger.Info("Goal report completed")
}
