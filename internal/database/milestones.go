package database

import (
	"context"
	"database/sql"
	"fmt"

	"goal-progress-engine/internal/models"
	"goal-progress-engine/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func scanMilestone(row goalRowScanner) (*models.GoalMilestone, error) {
	var m models.GoalMilestone
	var targetStr string
	var achievedStr sql.NullString
	var achievedAt sql.NullTime

	err := row.Scan(&m.Id, &m.GoalId, &m.Percentage, &targetStr, &achievedStr,
		&achievedAt, &m.IsAchieved, &m.Notified, &m.CreatedAt)
	if err != nil {
		return nil, err
	}

	if m.TargetAmount, err = decimal.NewFromString(targetStr); err != nil {
		return nil, fmt.Errorf("failed to parse milestone target %q: %w", targetStr, err)
	}
	if achievedStr.Valid {
		if m.AchievedAmount, err = decimal.NewFromString(achievedStr.String); err != nil {
			return nil, fmt.Errorf("failed to parse achieved amount %q: %w", achievedStr.String, err)
		}
	}
	if achievedAt.Valid {
		t := achievedAt.Time
		m.AchievedAt = &t
	}

	return &m, nil
}

func (s *Service) GetGoalMilestones(ctx context.Context, goalId string) ([]models.GoalMilestone, error) {
	rows, err := s.db.QueryContext(ctx, queryGetGoalMilestones, goalId)
	if err != nil {
		return nil, fmt.Errorf("unable to query milestones: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var milestones []models.GoalMilestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan milestone row: %w", err)
		}
		milestones = append(milestones, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating milestone rows: %w", err)
	}

	return milestones, nil
}

func (s *Service) getMilestonesTx(ctx context.Context, tx *sql.Tx, goalId string) ([]models.GoalMilestone, error) {
	rows, err := tx.QueryContext(ctx, queryGetGoalMilestones, goalId)
	if err != nil {
		return nil, fmt.Errorf("unable to query milestones: %w", err)
	}
	defer rows.Close()

	var milestones []models.GoalMilestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan milestone row: %w", err)
		}
		milestones = append(milestones, *m)
	}

	return milestones, rows.Err()
}

func (s *Service) querySummaries(ctx context.Context, query string, args ...any) ([]models.MilestoneSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to query milestone summaries: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var summaries []models.MilestoneSummary
	for rows.Next() {
		var summary models.MilestoneSummary
		var targetStr string
		var achievedStr sql.NullString
		var achievedAt sql.NullTime

		err := rows.Scan(&summary.GoalId, &summary.GoalName, &summary.Percentage,
			&targetStr, &achievedStr, &achievedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan milestone summary: %w", err)
		}

		if summary.TargetAmount, err = decimal.NewFromString(targetStr); err != nil {
			return nil, fmt.Errorf("failed to parse milestone target %q: %w", targetStr, err)
		}
		if achievedStr.Valid {
			if summary.AchievedAmount, err = decimal.NewFromString(achievedStr.String); err != nil {
				return nil, fmt.Errorf("failed to parse achieved amount %q: %w", achievedStr.String, err)
			}
		}
		if achievedAt.Valid {
			t := achievedAt.Time
			summary.AchievedAt = &t
		}

		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// GetUpcomingMilestones lists a user's nearest unachieved milestones across
// active goals, ordered by percentage ascending.
func (s *Service) GetUpcomingMilestones(ctx context.Context, userId string, limit int) ([]models.MilestoneSummary, error) {
	return s.querySummaries(ctx, queryUpcomingMilestones, userId, limit)
}

// GetRecentAchievements lists a user's most recently achieved milestones
// across all goals.
func (s *Service) GetRecentAchievements(ctx context.Context, userId string, limit int) ([]models.MilestoneSummary, error) {
	return s.querySummaries(ctx, queryRecentAchievements, userId, limit)
}

// GetUnnotifiedAchievements lists achieved milestones whose alert has not
// been acknowledged by the notification collaborator yet.
func (s *Service) GetUnnotifiedAchievements(ctx context.Context, userId string) ([]models.MilestoneSummary, error) {
	return s.querySummaries(ctx, queryUnnotifiedAchievements, userId)
}

// MarkMilestoneNotified flips the notified flag once the delivery-side
// collaborator acknowledges sending the achievement alert.
func (s *Service) MarkMilestoneNotified(ctx context.Context, goalId string, percentage int64) error {
	result, err := s.db.ExecContext(ctx, queryMarkMilestoneNotified, goalId, percentage)
	if err != nil {
		return fmt.Errorf("failed to mark milestone notified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: goal %s at %d%%", store.ErrMilestoneNotFound, goalId, percentage)
	}

	zap.L().Info("Milestone marked notified",
		zap.String("goal_id", goalId),
		zap.Int64("percentage", percentage))
	return nil
}
