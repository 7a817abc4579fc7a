package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"goal-progress-engine/internal/common"
	"goal-progress-engine/internal/config"
	"goal-progress-engine/internal/engine"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Owner's email address (required)")
	accountFlag := flag.String("account", "", "Linked account ID (required)")
	nameFlag := flag.String("name", "", "Goal name (required)")
	targetFlag := flag.String("target", "", "Target amount, e.g. 5000.00 (required)")
	dateFlag := flag.String("date", "", "Target date in YYYY-MM-DD format (required)")
	descriptionFlag := flag.String("description", "", "Goal description (optional)")
	categoryFlag := flag.String("category", "", "Category ID (optional)")
	priorityFlag := flag.Int("priority", 0, "Priority 1-10 (optional, default 5)")
	flag.Parse()

	if *emailFlag == "" || *accountFlag == "" || *nameFlag == "" || *targetFlag == "" || *dateFlag == "" {
		logger.Fatal("Required flags: --email, --account, --name, --target, --date")
	}

	targetAmount, err := decimal.NewFromString(*targetFlag)
	if err != nil {
		logger.Fatal("Invalid target amount", zap.String("target", *targetFlag), zap.Error(err))
	}

	targetDate, err := time.Parse("2006-01-02", *dateFlag)
	if err != nil {
		logger.Fatal("Invalid target date", zap.String("date", *dateFlag), zap.Error(err))
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

	milestones := engine.DefaultMilestonePercentages
	if cfg.Engine.MilestonesFile != "" {
		milestones, err = common.LoadMilestoneSchedule(cfg.Engine.MilestonesFile)
		if err != nil {
			logger.Fatal("Failed to load milestone schedule", zap.Error(err))
		}
	}

	goalEngine := engine.New(goalStore, cfg.Engine, milestones)

	goal, err := goalEngine.CreateGoal(ctx, user.Id, engine.CreateGoalParams{
		AccountId:    *accountFlag,
		CategoryId:   *categoryFlag,
		Name:         *nameFlag,
		Description:  *descriptionFlag,
		TargetAmount: targetAmount,
		TargetDate:   targetDate,
		Priority:     *priorityFlag,
	})
	if err != nil {
		logger.Fatal("Failed to create goal", zap.Error(err))
	}

	createdMilestones, err := goalStore.GetGoalMilestones(ctx, goal.Id)
	if err != nil {
		logger.Fatal("Failed to load milestones", zap.Error(err))
	}

	common.PrintHeader("GOAL CREATED", common.DefaultWidth)
	fmt.Printf("ID:              %s\n", goal.Id)
	fmt.Printf("Name:            %s\n", goal.Name)
	fmt.Printf("Owner:           %s <%s>\n", user.Name, user.Email)
	fmt.Printf("Target:          %s by %s\n", goal.TargetAmount.StringFixed(2), goal.TargetDate.Format("2006-01-02"))
	fmt.Printf("Starting from:   %s\n", goal.InitialBalance.StringFixed(2))
	fmt.Printf("Priority:        %d\n", goal.Priority)
	common.PrintBoxSeparator(common.DefaultWidth - 2)
	for i, m := range createdMilestones {
		fmt.Printf("%s %3d%% milestone at %s\n",
			common.BoxPrefix(i == len(createdMilestones)-1), m.Percentage, m.TargetAmount.StringFixed(2))
	}
	common.PrintSeparator("=", common.DefaultWidth)

	logger.Info("Goal created successfully", zap.String("goal_id", goal.Id))
}
