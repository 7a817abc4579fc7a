package engine

import (
	"context"

	"goal-progress-engine/internal/models"
	"goal-progress-engine/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var oneHundred = decimal.NewFromInt(100)

// progressPercentage is the goal completion percentage for a balance,
// clamped to [0, 100]. A non-positive target resolves to zero rather than
// an error.
func progressPercentage(currentAmount, targetAmount decimal.Decimal) decimal.Decimal {
	if !targetAmount.IsPositive() {
		return decimal.Zero
	}
	pct := currentAmount.Div(targetAmount).Mul(oneHundred)
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(oneHundred) {
		return oneHundred
	}
	return pct
}

// UpdateGoalProgress recalculates a goal's progress from its linked
// account's current balance: it mirrors the balance into the goal, appends
// one history entry, and evaluates milestone crossings — all as a single
// store transaction. transactionId optionally correlates the entry to the
// triggering account mutation. On failure the goal's current amount is left
// unchanged.
func (e *Engine) UpdateGoalProgress(ctx context.Context, goalId, userId, transactionId string) (*models.ProgressUpdate, error) {
	goal, err := e.store.GetGoal(ctx, goalId, userId)
	if err != nil {
		return nil, err
	}

	newAmount, err := e.store.GetAccountBalance(ctx, goal.AccountId, userId)
	if err != nil {
		return nil, err
	}

	previousAmount := goal.CurrentAmount
	changeAmount := newAmount.Sub(previousAmount)
	pct := progressPercentage(newAmount, goal.TargetAmount)

	result, err := e.store.RecordProgress(ctx, store.RecordProgressParams{
		GoalId:             goalId,
		UserId:             userId,
		PreviousAmount:     previousAmount,
		NewAmount:          newAmount,
		ChangeAmount:       changeAmount,
		ProgressPercentage: pct,
		TransactionId:      transactionId,
		ExpectedVersion:    goal.Version,
	})
	if err != nil {
		return nil, err
	}

	update := &models.ProgressUpdate{
		PreviousAmount:     previousAmount,
		NewAmount:          newAmount,
		ChangeAmount:       changeAmount,
		ProgressPercentage: pct,
		MilestoneTriggered: result.MilestoneTriggered,
		GoalCompleted:      result.GoalCompleted,
	}

	zap.L().Info("Goal progress updated",
		zap.String("goal_id", goalId),
		zap.String("change_amount", changeAmount.String()),
		zap.String("progress_pct", pct.StringFixed(2)),
		zap.Int64("milestone_triggered", result.MilestoneTriggered))

	return update, nil
}
