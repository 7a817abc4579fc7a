package database

import (
	"context"
	"database/sql"
	"fmt"

	"goal-progress-engine/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetRecentHistory returns up to limit progress-history entries for a goal,
// newest first. The history is append-only; rows are never edited after
// insertion.
func (s *Service) GetRecentHistory(ctx context.Context, goalId string, limit int) ([]models.GoalProgressHistory, error) {
	rows, err := s.db.QueryContext(ctx, queryGetRecentHistory, goalId, limit)
	if err != nil {
		zap.L().Error("Failed to query progress history", zap.String("goal_id", goalId), zap.Error(err))
		return nil, fmt.Errorf("unable to query progress history: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var entries []models.GoalProgressHistory
	for rows.Next() {
		var entry models.GoalProgressHistory
		var previousStr, newStr, changeStr, balanceStr, pctStr string
		var transactionId sql.NullString

		err := rows.Scan(&entry.Id, &entry.GoalId, &previousStr, &newStr, &changeStr,
			&balanceStr, &pctStr, &transactionId, &entry.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan history row: %w", err)
		}

		if entry.PreviousAmount, err = decimal.NewFromString(previousStr); err != nil {
			return nil, fmt.Errorf("failed to parse previous_amount %q: %w", previousStr, err)
		}
		if entry.NewAmount, err = decimal.NewFromString(newStr); err != nil {
			return nil, fmt.Errorf("failed to parse new_amount %q: %w", newStr, err)
		}
		if entry.ChangeAmount, err = decimal.NewFromString(changeStr); err != nil {
			return nil, fmt.Errorf("failed to parse change_amount %q: %w", changeStr, err)
		}
		if entry.AccountBalance, err = decimal.NewFromString(balanceStr); err != nil {
			return nil, fmt.Errorf("failed to parse account_balance %q: %w", balanceStr, err)
		}
		if entry.ProgressPercentage, err = decimal.NewFromString(pctStr); err != nil {
			return nil, fmt.Errorf("failed to parse progress_percentage %q: %w", pctStr, err)
		}
		entry.TransactionId = transactionId.String

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during history row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return entries, nil
}
