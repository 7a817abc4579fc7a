package main

import (
	"context"
	"flag"
	"fmt"

	"goal-progress-engine/internal/common"
	"goal-progress-engine/internal/config"
	"goal-progress-engine/internal/engine"
	"goal-progress-engine/internal/models"
	"goal-progress-engine/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type recalcStats struct {
	goalsProcessed      int
	milestonesTriggered int
	goalsCompleted      int
}

// recalculateGoal runs one progress recalculation and prints the outcome.
func recalculateGoal(ctx context.Context, goalEngine *engine.Engine, goal models.SavingsGoal, userId, transactionId string, stats *recalcStats) error {
	update, err := goalEngine.UpdateGoalProgress(ctx, goal.Id, userId, transactionId)
	if err != nil {
		return err
	}

	stats.goalsProcessed++

	direction := "→"
	if update.ChangeAmount.IsPositive() {
		direction = "↑"
	} else if update.ChangeAmount.IsNegative() {
		direction = "↓"
	}

	fmt.Printf("%s %-30s %s %s (%s%%)\n",
		direction, goal.Name, update.PreviousAmount.StringFixed(2),
		update.NewAmount.StringFixed(2), update.ProgressPercentage.StringFixed(1))

	if update.MilestoneTriggered > 0 {
		stats.milestonesTriggered++
		fmt.Printf("  ★ %d%% milestone reached!\n", update.MilestoneTriggered)
	}
	if update.GoalCompleted {
		stats.goalsCompleted++
		fmt.Printf("  ✓ Goal completed!\n")
	}

	return nil
}

// dispatchPendingAlerts plays the notification dispatcher role: print each
// achieved-but-unannounced milestone and acknowledge it in the store.
func dispatchPendingAlerts(ctx context.Context, goalStore store.GoalStore, userId string, logger *zap.Logger) {
	pending, err := goalStore.GetUnnotifiedAchievements(ctx, userId)
	if err != nil {
		logger.Error("Failed to load pending milestone alerts", zap.Error(err))
		return
	}

	for _, achievement := range pending {
		fmt.Printf("  ✉ Notifying: %q reached %d%% (%s saved)\n",
			achievement.GoalName, achievement.Percentage, achievement.AchievedAmount.StringFixed(2))

		if err := goalStore.MarkMilestoneNotified(ctx, achievement.GoalId, achievement.Percentage); err != nil {
			logger.Error("Failed to mark milestone notified",
				zap.String("goal_id", achievement.GoalId),
				zap.Int64("percentage", achievement.Percentage),
				zap.Error(err))
		}
	}
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "User's email address (required)")
	goalFlag := flag.String("goal", "", "Recalculate a single goal by ID (optional; default all active goals)")
	creditFlag := flag.String("credit", "", "Apply a signed amount to the goal's account before recalculating (optional)")
	txFlag := flag.String("tx", "", "Transaction ID correlating this recalculation (optional)")
	flag.Parse()

	if *emailFlag == "" {
		logger.Fatal("Required flag: --email")
	}
	if *creditFlag != "" && *goalFlag == "" {
		logger.Fatal("--credit requires --goal")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	goalStore, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize goal store", zap.Error(err))
	}
	defer goalStore.Close()

	user, err := goalStore.GetUserByEmail(ctx, *emailFlag)
	if err != nil {
		logger.Fatal("User not found", zap.String("email", *emailFlag), zap.Error(err))
	}

	goalEngine := engine.New(goalStore, cfg.Engine, nil)

	var goals []models.SavingsGoal
	if *goalFlag != "" {
		goal, err := goalStore.GetGoal(ctx, *goalFlag, user.Id)
		if err != nil {
			logger.Fatal("Goal not found", zap.String("goal_id", *goalFlag), zap.Error(err))
		}
		goals = append(goals, *goal)
	} else {
		allGoals, err := goalStore.GetUserGoals(ctx, user.Id)
		if err != nil {
			logger.Fatal("Failed to load goals", zap.Error(err))
		}
		for _, goal := range allGoals {
			if goal.Status == models.GoalStatusActive {
				goals = append(goals, goal)
			}
		}
	}

	if *creditFlag != "" {
		amount, err := decimal.NewFromString(*creditFlag)
		if err != nil {
			logger.Fatal("Invalid credit amount", zap.String("credit", *creditFlag), zap.Error(err))
		}
		if _, err := goalStore.CreditAccount(ctx, goals[0].AccountId, user.Id, amount); err != nil {
			logger.Fatal("Failed to credit account", zap.Error(err))
		}
	}

	common.PrintHeader("PROGRESS RECALCULATION", common.DefaultWidth)

	stats := recalcStats{}
	for _, goal := range goals {
		if err := recalculateGoal(ctx, goalEngine, goal, user.Id, *txFlag, &stats); err != nil {
			logger.Error("Failed to recalculate goal",
				zap.String("goal_id", goal.Id),
				zap.Error(err))
		}
	}

	dispatchPendingAlerts(ctx, goalStore, user.Id, logger)

	summary := fmt.Sprintf("SUMMARY: %d goals recalculated, %d milestones triggered, %d completed",
		stats.goalsProcessed, stats.milestonesTriggered, stats.goalsCompleted)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Progress recalculation completed",
		zap.Int("goals_processed", stats.goalsProcessed),
		zap.Int("milestones_triggered", stats.milestonesTriggered),
		zap.Int("goals_completed", stats.goalsCompleted))
}
