package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"goal-progress-engine/internal/common"
	"goal-progress-engine/internal/config"
	"goal-progress-engine/internal/engine"
	"goal-progress-engine/internal/store"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const demoUserCount = 3

// seedDemoUser creates one user with an account, a savings goal, and a few
// weeks of simulated deposits so the rate estimator has history to work with.
func seedDemoUser(ctx context.Context, goalStore store.GoalStore, goalEngine *engine.Engine) error {
	name := gofakeit.Name()
	email := gofakeit.Email()

	user, err := goalStore.CreateUser(ctx, uuid.New().String(), name, email)
	if err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	startingBalance := decimal.NewFromInt(int64(gofakeit.Number(100, 1000)))
	account, err := goalStore.CreateAccount(ctx, store.CreateAccountParams{
		UserId:         user.Id,
		Name:           fmt.Sprintf("%s Savings", gofakeit.Word()),
		InitialBalance: startingBalance,
	})
	if err != nil {
		return fmt.Errorf("failed to create demo account: %w", err)
	}

	target := startingBalance.Add(decimal.NewFromInt(int64(gofakeit.Number(2000, 10000))))
	goal, err := goalEngine.CreateGoal(ctx, user.Id, engine.CreateGoalParams{
		AccountId:    account.Id,
		Name:         fmt.Sprintf("%s fund", gofakeit.HackerNoun()),
		Description:  gofakeit.Sentence(6),
		TargetAmount: target,
		TargetDate:   time.Now().AddDate(1, 0, 0),
		Priority:     gofakeit.Number(1, 10),
	})
	if err != nil {
		return fmt.Errorf("failed to create demo goal: %w", err)
	}

	// A handful of deposits, each followed by a recalculation
	deposits := gofakeit.Number(3, 8)
	for i := 0; i < deposits; i++ {
		amount := decimal.NewFromInt(int64(gofakeit.Number(50, 500)))
		if rand.Intn(5) == 0 {
			amount = amount.Neg()
		}
		if _, err := goalStore.CreditAccount(ctx, account.Id, user.Id, amount); err != nil {
			return fmt.Errorf("failed to credit demo account: %w", err)
		}
		if _, err := goalEngine.UpdateGoalProgress(ctx, goal.Id, user.Id, uuid.New().String()); err != nil {
			return fmt.Errorf("failed to record demo progress: %w", err)
		}
	}

	fmt.Printf("✓ %s <%s>: goal %q targeting %s (%d deposits)\n",
		user.Name, user.Email, goal.Name, goal.TargetAmount.StringFixed(2), deposits)
	return nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	seedFlag := flag.Bool("seed", false, "Seed demo users, accounts, and goals")
	flag.Parse()

	logger.Info("Starting goal store setup")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	goalStore, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize goal store", zap.Error(err))
	}
	defer goalStore.Close()

	common.PrintHeader("GOAL STORE SETUP", common.DefaultWidth)
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	fmt.Println("Schema initialized")

	milestones := engine.DefaultMilestonePercentages
	if cfg.Engine.MilestonesFile != "" {
		milestones, err = common.LoadMilestoneSchedule(cfg.Engine.MilestonesFile)
		if err != nil {
			logger.Fatal("Failed to load milestone schedule", zap.Error(err))
		}
		logger.Info("Loaded milestone schedule",
			zap.String("file", cfg.Engine.MilestonesFile),
			zap.Int64s("percentages", milestones))
	}

	if *seedFlag || cfg.Database.SeedDemoData {
		goalEngine := engine.New(goalStore, cfg.Engine, milestones)

		fmt.Printf("\nSeeding %d demo users...\n\n", demoUserCount)
		for i := 0; i < demoUserCount; i++ {
			if err := seedDemoUser(ctx, goalStore, goalEngine); err != nil {
				logger.Error("Failed to seed demo user", zap.Error(err))
			}
		}
	}

	common.PrintFooter("Setup complete", common.DefaultWidth)
	logger.Info("Goal store setup completed")
}
