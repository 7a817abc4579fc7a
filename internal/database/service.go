package database

import (
	"context"
	"database/sql"
	"fmt"

	"goal-progress-engine/internal/models"
	"goal-progress-engine/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.GoalStore.
var _ store.GoalStore = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.InitSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

// InitSchema creates the goal store tables. All monetary columns are TEXT
// holding fixed-point decimal strings; never REAL.
func (s *Service) InitSchema() error {
	schema := `
	-- Users
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	-- Financial accounts goals link to (balance source of truth)
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		balance TEXT NOT NULL DEFAULT '0',
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id);

	-- Savings goals (current_amount mirrors the linked account balance)
	CREATE TABLE IF NOT EXISTS savings_goals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		account_id TEXT NOT NULL REFERENCES accounts(id),
		category_id TEXT,
		name TEXT NOT NULL,
		description TEXT,
		target_amount TEXT NOT NULL,
		current_amount TEXT NOT NULL DEFAULT '0',
		initial_balance TEXT NOT NULL DEFAULT '0',
		target_date TIMESTAMP NOT NULL,
		priority INTEGER NOT NULL DEFAULT 5,
		status TEXT NOT NULL DEFAULT 'active',
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_goals_user_id ON savings_goals(user_id);
	CREATE INDEX IF NOT EXISTS idx_goals_user_status ON savings_goals(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_goals_account_id ON savings_goals(account_id);

	-- Milestone checkpoints (achievement is monotonic, never reverts)
	CREATE TABLE IF NOT EXISTS goal_milestones (
		id TEXT PRIMARY KEY,
		goal_id TEXT NOT NULL REFERENCES savings_goals(id) ON DELETE CASCADE,
		percentage INTEGER NOT NULL,
		target_amount TEXT NOT NULL,
		achieved_amount TEXT,
		achieved_at TIMESTAMP,
		is_achieved BOOLEAN NOT NULL DEFAULT 0,
		notified BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(goal_id, percentage)
	);

	CREATE INDEX IF NOT EXISTS idx_milestones_goal_id ON goal_milestones(goal_id);
	CREATE INDEX IF NOT EXISTS idx_milestones_achieved ON goal_milestones(goal_id, is_achieved);

	-- Append-only progress ledger (audit trail for rate estimation)
	CREATE TABLE IF NOT EXISTS goal_progress_history (
		id TEXT PRIMARY KEY,
		goal_id TEXT NOT NULL REFERENCES savings_goals(id) ON DELETE CASCADE,
		previous_amount TEXT NOT NULL,
		new_amount TEXT NOT NULL,
		change_amount TEXT NOT NULL,
		account_balance TEXT NOT NULL,
		progress_percentage TEXT NOT NULL,
		transaction_id TEXT,
		recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_history_goal_id ON goal_progress_history(goal_id);
	CREATE INDEX IF NOT EXISTS idx_history_recorded_at ON goal_progress_history(goal_id, recorded_at);
	`

	_, err := s.db.Exec(schema)
	return err
}
