package database

const (
	// User queries
	queryGetUsers = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		ORDER BY created_at`

	queryInsertUser = `
		INSERT OR IGNORE INTO users (id, name, email) VALUES (?, ?, ?)`

	queryGetUserById = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE id = ?`

	queryGetUserByEmail = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE email = ?`

	// Account queries
	queryInsertAccount = `
		INSERT INTO accounts (id, user_id, name, balance)
		VALUES (?, ?, ?, ?)`

	queryGetAccount = `
		SELECT id, user_id, name, balance, updated_at
		FROM accounts
		WHERE id = ? AND user_id = ?`

	queryGetAccountBalance = `
		SELECT balance
		FROM accounts
		WHERE id = ? AND user_id = ?`

	queryUpdateAccountBalance = `
		UPDATE accounts
		SET balance = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`

	// Goal queries
	queryInsertGoal = `
		INSERT INTO savings_goals (
			id, user_id, account_id, category_id, name, description,
			target_amount, current_amount, initial_balance, target_date, priority, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetGoal = `
		SELECT id, user_id, account_id, category_id, name, description,
		       target_amount, current_amount, initial_balance, target_date,
		       priority, status, version, created_at, updated_at
		FROM savings_goals
		WHERE id = ? AND user_id = ?`

	queryGetUserGoals = `
		SELECT id, user_id, account_id, category_id, name, description,
		       target_amount, current_amount, initial_balance, target_date,
		       priority, status, version, created_at, updated_at
		FROM savings_goals
		WHERE user_id = ?
		ORDER BY priority DESC, created_at`

	queryUpdateGoalStatus = `
		UPDATE savings_goals
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`

	queryDeleteGoal = `
		DELETE FROM savings_goals
		WHERE id = ? AND user_id = ?`

	// The balance mirror update carries an optimistic version check so two
	// interleaved recalculations for the same goal cannot lose an update.
	queryUpdateGoalProgress = `
		UPDATE savings_goals
		SET current_amount = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ? AND version = ?`

	queryCompleteGoal = `
		UPDATE savings_goals
		SET status = 'completed', updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	// Milestone queries
	queryInsertMilestone = `
		INSERT INTO goal_milestones (id, goal_id, percentage, target_amount)
		VALUES (?, ?, ?, ?)`

	queryGetGoalMilestones = `
		SELECT id, goal_id, percentage, target_amount, achieved_amount,
		       achieved_at, is_achieved, notified, created_at
		FROM goal_milestones
		WHERE goal_id = ?
		ORDER BY percentage`

	queryRewriteMilestoneTargets = `
		UPDATE goal_milestones
		SET target_amount = ?
		WHERE goal_id = ? AND percentage = ?`

	queryLowestUnachievedMilestone = `
		SELECT id, percentage
		FROM goal_milestones
		WHERE goal_id = ? AND is_achieved = 0 AND percentage <= ?
		ORDER BY percentage
		LIMIT 1`

	queryAchieveMilestone = `
		UPDATE goal_milestones
		SET is_achieved = 1, achieved_amount = ?, achieved_at = ?
		WHERE id = ? AND is_achieved = 0`

	queryMarkMilestoneNotified = `
		UPDATE goal_milestones
		SET notified = 1
		WHERE goal_id = ? AND percentage = ? AND is_achieved = 1`

	queryUpcomingMilestones = `
		SELECT m.goal_id, g.name, m.percentage, m.target_amount, m.achieved_amount, m.achieved_at
		FROM goal_milestones m
		JOIN savings_goals g ON g.id = m.goal_id
		WHERE g.user_id = ? AND g.status = 'active' AND m.is_achieved = 0
		ORDER BY m.percentage, g.priority DESC
		LIMIT ?`

	queryRecentAchievements = `
		SELECT m.goal_id, g.name, m.percentage, m.target_amount, m.achieved_amount, m.achieved_at
		FROM goal_milestones m
		JOIN savings_goals g ON g.id = m.goal_id
		WHERE g.user_id = ? AND m.is_achieved = 1
		ORDER BY m.achieved_at DESC
		LIMIT ?`

	queryUnnotifiedAchievements = `
		SELECT m.goal_id, g.name, m.percentage, m.target_amount, m.achieved_amount, m.achieved_at
		FROM goal_milestones m
		JOIN savings_goals g ON g.id = m.goal_id
		WHERE g.user_id = ? AND m.is_achieved = 1 AND m.notified = 0
		ORDER BY m.achieved_at`

	// History queries
	queryInsertHistory = `
		INSERT INTO goal_progress_history (
			id, goal_id, previous_amount, new_amount, change_amount,
			account_balance, progress_percentage, transaction_id, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetRecentHistory = `
		SELECT id, goal_id, previous_amount, new_amount, change_amount,
		       account_balance, progress_percentage, transaction_id, recorded_at
		FROM goal_progress_history
		WHERE goal_id = ?
		ORDER BY recorded_at DESC
		LIMIT ?`
)
