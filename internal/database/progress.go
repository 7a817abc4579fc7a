package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"goal-progress-engine/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordProgress atomically persists one progress recalculation: the goal's
// balance mirror update, the append-only history entry, and at most one
// milestone flip. The milestone comparison takes the lowest unachieved
// checkpoint at or below the new progress percentage; when several
// thresholds are crossed in a single jump only the lowest is flipped per
// call. Achieving the 100% checkpoint also completes the goal.
func (s *Service) RecordProgress(ctx context.Context, params store.RecordProgressParams) (*store.RecordProgressResult, error) {
	zap.L().Info("Recording goal progress",
		zap.String("goal_id", params.GoalId),
		zap.String("user_id", params.UserId),
		zap.String("previous_amount", params.PreviousAmount.String()),
		zap.String("new_amount", params.NewAmount.String()),
		zap.String("change_amount", params.ChangeAmount.String()),
		zap.String("progress_pct", params.ProgressPercentage.String()))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Update the balance mirror with an optimistic version check
	result, err := tx.ExecContext(ctx, queryUpdateGoalProgress,
		params.NewAmount.String(), params.GoalId, params.UserId, params.ExpectedVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal amount: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Either the goal is gone or another recalculation won the race.
		var version int64
		err := tx.QueryRowContext(ctx,
			`SELECT version FROM savings_goals WHERE id = ? AND user_id = ?`,
			params.GoalId, params.UserId).Scan(&version)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrGoalNotFound, params.GoalId)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to inspect goal version: %w", err)
		}
		return nil, fmt.Errorf("goal update failed - %w", store.ErrConcurrentModification)
	}

	// Append the history entry
	now := time.Now()
	var transactionId any
	if params.TransactionId != "" {
		transactionId = params.TransactionId
	}

	_, err = tx.ExecContext(ctx, queryInsertHistory,
		uuid.New().String(), params.GoalId,
		params.PreviousAmount.String(), params.NewAmount.String(), params.ChangeAmount.String(),
		params.NewAmount.String(), params.ProgressPercentage.String(), transactionId, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert history entry: %w", err)
	}

	// Flip the lowest unachieved milestone at or below the new progress
	progressResult := &store.RecordProgressResult{}

	var milestoneId string
	var percentage int64
	err = tx.QueryRowContext(ctx, queryLowestUnachievedMilestone,
		params.GoalId, params.ProgressPercentage.String()).Scan(&milestoneId, &percentage)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query unachieved milestones: %w", err)
	}

	if err == nil {
		achieveResult, err := tx.ExecContext(ctx, queryAchieveMilestone,
			params.NewAmount.String(), now, milestoneId)
		if err != nil {
			return nil, fmt.Errorf("failed to achieve milestone: %w", err)
		}
		achieved, err := achieveResult.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to check rows affected: %w", err)
		}
		if achieved > 0 {
			progressResult.MilestoneTriggered = percentage
			if percentage >= 100 {
				if _, err := tx.ExecContext(ctx, queryCompleteGoal, params.GoalId); err != nil {
					return nil, fmt.Errorf("failed to complete goal: %w", err)
				}
				progressResult.GoalCompleted = true
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if progressResult.MilestoneTriggered > 0 {
		zap.L().Info("Milestone achieved",
			zap.String("goal_id", params.GoalId),
			zap.Int64("percentage", progressResult.MilestoneTriggered),
			zap.Bool("goal_completed", progressResult.GoalCompleted))
	}

	return progressResult, nil
}
