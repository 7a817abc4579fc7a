package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"goal-progress-engine/internal/models"
	"goal-progress-engine/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service := &Service{db: db}

	// Use the actual schema initialization
	if err := service.InitSchema(); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

// seedGoal creates a user, an account, and an active goal with the standard
// milestone checkpoints.
func seedGoal(t *testing.T, service *Service, target int64) *models.SavingsGoal {
	ctx := context.Background()

	user, err := service.CreateUser(ctx, "user1", "Test User", "user1@example.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	account, err := service.CreateAccount(ctx, store.CreateAccountParams{
		UserId:         user.Id,
		Name:           "Savings",
		InitialBalance: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	goal, err := service.CreateGoal(ctx, store.CreateGoalParams{
		UserId:               user.Id,
		AccountId:            account.Id,
		Name:                 "Emergency fund",
		TargetAmount:         decimal.NewFromInt(target),
		InitialBalance:       decimal.Zero,
		TargetDate:           time.Now().AddDate(1, 0, 0),
		Priority:             5,
		MilestonePercentages: []int64{25, 50, 75, 100},
	})
	if err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}

	return goal
}

func progressParams(goal *models.SavingsGoal, newAmount int64, version int64) store.RecordProgressParams {
	amount := decimal.NewFromInt(newAmount)
	previous := goal.CurrentAmount
	return store.RecordProgressParams{
		GoalId:             goal.Id,
		UserId:             goal.UserId,
		PreviousAmount:     previous,
		NewAmount:          amount,
		ChangeAmount:       amount.Sub(previous),
		ProgressPercentage: amount.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)),
		ExpectedVersion:    version,
	}
}

func TestRecordProgress_UpdatesMirrorAndHistory(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	goal := seedGoal(t, service, 1000)

	result, err := service.RecordProgress(ctx, progressParams(goal, 300, goal.Version))
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}
	if result.MilestoneTriggered != 25 {
		t.Errorf("Expected 25%% milestone triggered, got %d", result.MilestoneTriggered)
	}
	if result.GoalCompleted {
		t.Error("Expected goal not completed at 30%")
	}

	stored, err := service.GetGoal(ctx, goal.Id, goal.UserId)
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if !stored.CurrentAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected current amount 300, got %s", stored.CurrentAmount)
	}
	if stored.Version != goal.Version+1 {
		t.Errorf("Expected version %d, got %d", goal.Version+1, stored.Version)
	}

	history, err := service.GetRecentHistory(ctx, goal.Id, 10)
	if err != nil {
		t.Fatalf("GetRecentHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(history))
	}
	if !history[0].ChangeAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected change amount 300, got %s", history[0].ChangeAmount)
	}
	if !history[0].AccountBalance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected account balance 300, got %s", history[0].AccountBalance)
	}
}

func TestRecordProgress_StaleVersionRejected(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	goal := seedGoal(t, service, 1000)

	// First write with the read version succeeds
	if _, err := service.RecordProgress(ctx, progressParams(goal, 100, goal.Version)); err != nil {
		t.Fatalf("First RecordProgress failed: %v", err)
	}

	// A second write carrying the same stale version loses the race
	_, err := service.RecordProgress(ctx, progressParams(goal, 200, goal.Version))
	if !errors.Is(err, store.ErrConcurrentModification) {
		t.Errorf("Expected concurrent modification error, got %v", err)
	}

	// The losing write must not have touched the goal or the ledger
	stored, err := service.GetGoal(ctx, goal.Id, goal.UserId)
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if !stored.CurrentAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected current amount 100 after rejected write, got %s", stored.CurrentAmount)
	}

	history, err := service.GetRecentHistory(ctx, goal.Id, 10)
	if err != nil {
		t.Fatalf("GetRecentHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("Expected 1 history entry after rejected write, got %d", len(history))
	}
}

func TestRecordProgress_UnknownGoal(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	goal := seedGoal(t, service, 1000)

	params := progressParams(goal, 100, goal.Version)
	params.GoalId = "missing-goal"

	_, err := service.RecordProgress(ctx, params)
	if !errors.Is(err, store.ErrGoalNotFound) {
		t.Errorf("Expected goal not found, got %v", err)
	}
}

func TestRecordProgress_CompletionFlipsStatus(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	goal := seedGoal(t, service, 1000)

	// Walk the version forward through all four checkpoints
	version := goal.Version
	var lastResult *store.RecordProgressResult
	for i := 0; i < 4; i++ {
		result, err := service.RecordProgress(ctx, progressParams(goal, 1000, version))
		if err != nil {
			t.Fatalf("RecordProgress %d failed: %v", i+1, err)
		}
		lastResult = result
		version++
		goal.CurrentAmount = decimal.NewFromInt(1000)
	}

	if lastResult.MilestoneTriggered != 100 {
		t.Errorf("Expected final milestone 100%%, got %d", lastResult.MilestoneTriggered)
	}
	if !lastResult.GoalCompleted {
		t.Error("Expected goal completed at 100% milestone")
	}

	stored, err := service.GetGoal(ctx, goal.Id, goal.UserId)
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if stored.Status != models.GoalStatusCompleted {
		t.Errorf("Expected completed status, got %s", stored.Status)
	}
}

func TestGetRecentHistory_RespectsLimit(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	goal := seedGoal(t, service, 1000)

	version := goal.Version
	for _, amount := range []int64{50, 120, 200} {
		if _, err := service.RecordProgress(ctx, progressParams(goal, amount, version)); err != nil {
			t.Fatalf("RecordProgress failed: %v", err)
		}
		version++
		goal.CurrentAmount = decimal.NewFromInt(amount)
	}

	history, err := service.GetRecentHistory(ctx, goal.Id, 2)
	if err != nil {
		t.Fatalf("GetRecentHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	if !history[0].NewAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected newest entry amount 200, got %s", history[0].NewAmount)
	}
}

func TestMilestoneNotificationFlow(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	goal := seedGoal(t, service, 1000)

	if _, err := service.RecordProgress(ctx, progressParams(goal, 300, goal.Version)); err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}

	pending, err := service.GetUnnotifiedAchievements(ctx, goal.UserId)
	if err != nil {
		t.Fatalf("GetUnnotifiedAchievements failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("Expected 1 pending achievement, got %d", len(pending))
	}
	if pending[0].Percentage != 25 {
		t.Errorf("Expected pending 25%% achievement, got %d%%", pending[0].Percentage)
	}
	if !pending[0].AchievedAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected achieved amount 300, got %s", pending[0].AchievedAmount)
	}

	if err := service.MarkMilestoneNotified(ctx, goal.Id, 25); err != nil {
		t.Fatalf("MarkMilestoneNotified failed: %v", err)
	}

	pending, err = service.GetUnnotifiedAchievements(ctx, goal.UserId)
	if err != nil {
		t.Fatalf("GetUnnotifiedAchievements failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending achievements after acknowledgment, got %d", len(pending))
	}
}

func TestMarkMilestoneNotified_RequiresAchievement(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	goal := seedGoal(t, service, 1000)

	// 50% is still unachieved; acknowledging it is an error
	err := service.MarkMilestoneNotified(ctx, goal.Id, 50)
	if !errors.Is(err, store.ErrMilestoneNotFound) {
		t.Errorf("Expected milestone not found, got %v", err)
	}
}
