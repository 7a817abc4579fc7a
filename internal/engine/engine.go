// Package engine implements savings-goal progress tracking: balance-delta
// recording, savings-velocity estimation, milestone evaluation, completion
// projection, and portfolio analytics. It holds no state of its own; all
// state lives in the goal store.
package engine

import (
	"context"
	"fmt"
	"time"

	"goal-progress-engine/internal/models"
	"goal-progress-engine/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Estimation defaults. Both directly affect trend sensitivity and are
// overridable through EngineConfig.
const (
	DefaultRateWindowSize  = 30
	DefaultTrendSampleSize = 5
)

// DefaultMilestonePercentages are the standard checkpoints created with
// every goal unless a schedule file overrides them.
var DefaultMilestonePercentages = []int64{25, 50, 75, 100}

const (
	minPriority     = 1
	maxPriority     = 10
	defaultPriority = 5
)

// Engine computes goal progress, savings rates, and projections on top of a
// GoalStore. Every public operation runs to completion within one logical
// request; suspension points are exclusively store calls.
type Engine struct {
	store      store.GoalStore
	cfg        models.EngineConfig
	milestones []int64
	now        func() time.Time
}

func New(goalStore store.GoalStore, cfg models.EngineConfig, milestonePercentages []int64) *Engine {
	if cfg.RateWindowSize < 2 {
		cfg.RateWindowSize = DefaultRateWindowSize
	}
	if cfg.TrendSampleSize < 1 {
		cfg.TrendSampleSize = DefaultTrendSampleSize
	}
	if len(milestonePercentages) == 0 {
		milestonePercentages = DefaultMilestonePercentages
	}

	return &Engine{
		store:      goalStore,
		cfg:        cfg,
		milestones: milestonePercentages,
		now:        time.Now,
	}
}

// CreateGoalParams carries the user-supplied fields for a new goal. The
// engine snapshots the linked account's balance into the goal itself.
type CreateGoalParams struct {
	AccountId    string
	CategoryId   string
	Name         string
	Description  string
	TargetAmount decimal.Decimal
	TargetDate   time.Time
	Priority     int
}

// CreateGoal validates the input, snapshots the linked account's balance as
// the goal's starting point, and creates the goal with its milestone
// checkpoints. The account must belong to the requesting user.
func (e *Engine) CreateGoal(ctx context.Context, userId string, params CreateGoalParams) (*models.SavingsGoal, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("%w: goal name is required", store.ErrValidation)
	}
	if !params.TargetAmount.IsPositive() {
		return nil, fmt.Errorf("%w: target amount must be positive, got %s", store.ErrValidation, params.TargetAmount.String())
	}
	if !params.TargetDate.After(e.now()) {
		return nil, fmt.Errorf("%w: target date must be in the future", store.ErrValidation)
	}
	if params.Priority == 0 {
		params.Priority = defaultPriority
	}
	if params.Priority < minPriority || params.Priority > maxPriority {
		return nil, fmt.Errorf("%w: priority must be between %d and %d, got %d",
			store.ErrValidation, minPriority, maxPriority, params.Priority)
	}

	account, err := e.store.GetAccount(ctx, params.AccountId, userId)
	if err != nil {
		return nil, err
	}

	goal, err := e.store.CreateGoal(ctx, store.CreateGoalParams{
		UserId:               userId,
		AccountId:            account.Id,
		CategoryId:           params.CategoryId,
		Name:                 params.Name,
		Description:          params.Description,
		TargetAmount:         params.TargetAmount,
		InitialBalance:       account.Balance,
		TargetDate:           params.TargetDate,
		Priority:             params.Priority,
		MilestonePercentages: e.milestones,
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Savings goal created",
		zap.String("goal_id", goal.Id),
		zap.String("user_id", userId),
		zap.String("target_amount", goal.TargetAmount.String()),
		zap.String("initial_balance", goal.InitialBalance.String()),
		zap.Time("target_date", goal.TargetDate))

	return goal, nil
}

// UpdateGoal applies a partial update. A target-amount change rewrites every
// milestone's target but leaves achievement state untouched; a milestone
// that should now count as crossed stays unflagged until the next progress
// recalculation runs the evaluator.
func (e *Engine) UpdateGoal(ctx context.Context, userId, goalId string, updates store.GoalUpdates) (*models.SavingsGoal, error) {
	if updates.TargetAmount != nil && !updates.TargetAmount.IsPositive() {
		return nil, fmt.Errorf("%w: target amount must be positive, got %s", store.ErrValidation, updates.TargetAmount.String())
	}
	if updates.Priority != nil && (*updates.Priority < minPriority || *updates.Priority > maxPriority) {
		return nil, fmt.Errorf("%w: priority must be between %d and %d, got %d",
			store.ErrValidation, minPriority, maxPriority, *updates.Priority)
	}

	return e.store.UpdateGoal(ctx, goalId, userId, updates)
}

// DeleteGoal removes a goal and cascades to its milestones and history.
func (e *Engine) DeleteGoal(ctx context.Context, userId, goalId string) error {
	return e.store.DeleteGoal(ctx, goalId, userId)
}

func (e *Engine) GetGoal(ctx context.Context, userId, goalId string) (*models.SavingsGoal, error) {
	return e.store.GetGoal(ctx, goalId, userId)
}

func (e *Engine) GetUserGoals(ctx context.Context, userId string) ([]models.SavingsGoal, error) {
	return e.store.GetUserGoals(ctx, userId)
}

func (e *Engine) PauseGoal(ctx context.Context, userId, goalId string) error {
	return e.store.UpdateGoalStatus(ctx, goalId, userId, models.GoalStatusPaused)
}

func (e *Engine) ResumeGoal(ctx context.Context, userId, goalId string) error {
	return e.store.UpdateGoalStatus(ctx, goalId, userId, models.GoalStatusActive)
}
