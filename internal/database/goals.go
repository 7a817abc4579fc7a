package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"goal-progress-engine/internal/models"
	"goal-progress-engine/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// goalRowScanner matches both *sql.Row and *sql.Rows.
type goalRowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row goalRowScanner) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	var categoryId, description sql.NullString
	var targetStr, currentStr, initialStr string

	err := row.Scan(&goal.Id, &goal.UserId, &goal.AccountId, &categoryId, &goal.Name, &description,
		&targetStr, &currentStr, &initialStr, &goal.TargetDate,
		&goal.Priority, &goal.Status, &goal.Version, &goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		return nil, err
	}

	goal.CategoryId = categoryId.String
	goal.Description = description.String

	if goal.TargetAmount, err = decimal.NewFromString(targetStr); err != nil {
		return nil, fmt.Errorf("failed to parse target_amount %q: %w", targetStr, err)
	}
	if goal.CurrentAmount, err = decimal.NewFromString(currentStr); err != nil {
		return nil, fmt.Errorf("failed to parse current_amount %q: %w", currentStr, err)
	}
	if goal.InitialBalance, err = decimal.NewFromString(initialStr); err != nil {
		return nil, fmt.Errorf("failed to parse initial_balance %q: %w", initialStr, err)
	}

	return &goal, nil
}

// milestoneTarget computes a checkpoint's amount as a fixed percentage of
// the goal target.
func milestoneTarget(targetAmount decimal.Decimal, percentage int64) decimal.Decimal {
	return targetAmount.Mul(decimal.NewFromInt(percentage)).Div(decimal.NewFromInt(100))
}

// CreateGoal inserts a goal and its milestone checkpoints in one transaction.
func (s *Service) CreateGoal(ctx context.Context, params store.CreateGoalParams) (*models.SavingsGoal, error) {
	goalId := uuid.New().String()

	zap.L().Info("Creating savings goal",
		zap.String("goal_id", goalId),
		zap.String("user_id", params.UserId),
		zap.String("account_id", params.AccountId),
		zap.String("name", params.Name),
		zap.String("target_amount", params.TargetAmount.String()))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var categoryId any
	if params.CategoryId != "" {
		categoryId = params.CategoryId
	}

	_, err = tx.ExecContext(ctx, queryInsertGoal,
		goalId, params.UserId, params.AccountId, categoryId, params.Name, params.Description,
		params.TargetAmount.String(), params.InitialBalance.String(), params.InitialBalance.String(),
		params.TargetDate, params.Priority, models.GoalStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to insert goal: %w", err)
	}

	for _, percentage := range params.MilestonePercentages {
		_, err = tx.ExecContext(ctx, queryInsertMilestone,
			uuid.New().String(), goalId, percentage,
			milestoneTarget(params.TargetAmount, percentage).String())
		if err != nil {
			return nil, fmt.Errorf("failed to insert %d%% milestone: %w", percentage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetGoal(ctx, goalId, params.UserId)
}

func (s *Service) GetGoal(ctx context.Context, goalId, userId string) (*models.SavingsGoal, error) {
	goal, err := scanGoal(s.db.QueryRowContext(ctx, queryGetGoal, goalId, userId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrGoalNotFound, goalId)
		}
		zap.L().Error("Failed to query goal", zap.String("goal_id", goalId), zap.Error(err))
		return nil, fmt.Errorf("unable to query goal: %w", err)
	}
	return goal, nil
}

func (s *Service) GetUserGoals(ctx context.Context, userId string) ([]models.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx, queryGetUserGoals, userId)
	if err != nil {
		zap.L().Error("Failed to query user goals", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query user goals: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var goals []models.SavingsGoal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan goal row: %w", err)
		}
		goals = append(goals, *goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goal rows: %w", err)
	}

	return goals, nil
}

// UpdateGoal applies a partial update. When the target amount changes, every
// milestone's target amount is rewritten in the same transaction; achievement
// state is left untouched, so a shrunken target can leave an already-crossed
// threshold unflagged until the next recalculation.
func (s *Service) UpdateGoal(ctx context.Context, goalId, userId string, updates store.GoalUpdates) (*models.SavingsGoal, error) {
	goal, err := s.GetGoal(ctx, goalId, userId)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		goal.Name = *updates.Name
	}
	if updates.Description != nil {
		goal.Description = *updates.Description
	}
	if updates.TargetDate != nil {
		goal.TargetDate = *updates.TargetDate
	}
	if updates.Priority != nil {
		goal.Priority = *updates.Priority
	}
	targetChanged := updates.TargetAmount != nil && !updates.TargetAmount.Equal(goal.TargetAmount)
	if updates.TargetAmount != nil {
		goal.TargetAmount = *updates.TargetAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE savings_goals
		SET name = ?, description = ?, target_amount = ?, target_date = ?, priority = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		goal.Name, goal.Description, goal.TargetAmount.String(), goal.TargetDate, goal.Priority,
		goalId, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrGoalNotFound, goalId)
	}

	if targetChanged {
		milestones, err := s.getMilestonesTx(ctx, tx, goalId)
		if err != nil {
			return nil, err
		}
		for _, m := range milestones {
			_, err = tx.ExecContext(ctx, queryRewriteMilestoneTargets,
				milestoneTarget(goal.TargetAmount, m.Percentage).String(), goalId, m.Percentage)
			if err != nil {
				return nil, fmt.Errorf("failed to rewrite %d%% milestone target: %w", m.Percentage, err)
			}
		}
		zap.L().Info("Rewrote milestone targets after goal target change",
			zap.String("goal_id", goalId),
			zap.String("new_target", goal.TargetAmount.String()),
			zap.Int("milestones", len(milestones)))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetGoal(ctx, goalId, userId)
}

func (s *Service) UpdateGoalStatus(ctx context.Context, goalId, userId, status string) error {
	result, err := s.db.ExecContext(ctx, queryUpdateGoalStatus, status, goalId, userId)
	if err != nil {
		return fmt.Errorf("failed to update goal status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", store.ErrGoalNotFound, goalId)
	}

	zap.L().Info("Goal status updated", zap.String("goal_id", goalId), zap.String("status", status))
	return nil
}

// DeleteGoal removes a goal; milestones and history cascade with it.
func (s *Service) DeleteGoal(ctx context.Context, goalId, userId string) error {
	result, err := s.db.ExecContext(ctx, queryDeleteGoal, goalId, userId)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", store.ErrGoalNotFound, goalId)
	}

	zap.L().Info("Goal deleted", zap.String("goal_id", goalId), zap.String("user_id", userId))
	return nil
}
