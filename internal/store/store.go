package store

import (
	"context"
	"errors"
	"time"

	"goal-progress-engine/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrGoalNotFound           = errors.New("goal not found")
	ErrAccountNotFound        = errors.New("account not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrMilestoneNotFound      = errors.New("milestone not found")
	ErrValidation             = errors.New("validation failed")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// CreateAccountParams contains the parameters for creating a financial account.
type CreateAccountParams struct {
	UserId         string
	Name           string
	InitialBalance decimal.Decimal
}

// CreateGoalParams contains the parameters for creating a savings goal
// together with its milestone checkpoints. InitialBalance is the linked
// account's balance snapshot at creation time and seeds CurrentAmount.
type CreateGoalParams struct {
	UserId               string
	AccountId            string
	CategoryId           string
	Name                 string
	Description          string
	TargetAmount         decimal.Decimal
	InitialBalance       decimal.Decimal
	TargetDate           time.Time
	Priority             int
	MilestonePercentages []int64
}

// GoalUpdates is a partial update of a goal's user-editable fields.
// Nil fields are left unchanged. A TargetAmount change rewrites every
// milestone's target amount but never touches achievement state.
type GoalUpdates struct {
	Name         *string
	Description  *string
	TargetAmount *decimal.Decimal
	TargetDate   *time.Time
	Priority     *int
}

// RecordProgressParams carries one precomputed progress recalculation to be
// persisted atomically: the goal's balance mirror update, the history
// append, and at most one milestone flip happen in a single transaction.
// ExpectedVersion is the goal row version the caller read; a mismatch at
// write time surfaces as ErrConcurrentModification.
type RecordProgressParams struct {
	GoalId             string
	UserId             string
	PreviousAmount     decimal.Decimal
	NewAmount          decimal.Decimal
	ChangeAmount       decimal.Decimal
	ProgressPercentage decimal.Decimal
	TransactionId      string
	ExpectedVersion    int64
}

// RecordProgressResult reports what the atomic progress write changed.
// MilestoneTriggered is the percentage of the milestone flipped by this
// recalculation, or zero when none was crossed.
type RecordProgressResult struct {
	MilestoneTriggered int64
	GoalCompleted      bool
}

// GoalStore defines the contract the engine requires from a persistence
// backend. It covers the goal/milestone/history store and the account
// balance provider collaborators.
type GoalStore interface {
	// --- Users ---
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, userId, name, email string) (*models.User, error)

	// --- Accounts ---
	CreateAccount(ctx context.Context, params CreateAccountParams) (*models.Account, error)
	GetAccount(ctx context.Context, accountId, userId string) (*models.Account, error)
	GetAccountBalance(ctx context.Context, accountId, userId string) (decimal.Decimal, error)
	CreditAccount(ctx context.Context, accountId, userId string, amount decimal.Decimal) (decimal.Decimal, error)

	// --- Goals ---
	CreateGoal(ctx context.Context, params CreateGoalParams) (*models.SavingsGoal, error)
	GetGoal(ctx context.Context, goalId, userId string) (*models.SavingsGoal, error)
	GetUserGoals(ctx context.Context, userId string) ([]models.SavingsGoal, error)
	UpdateGoal(ctx context.Context, goalId, userId string, updates GoalUpdates) (*models.SavingsGoal, error)
	UpdateGoalStatus(ctx context.Context, goalId, userId, status string) error
	DeleteGoal(ctx context.Context, goalId, userId string) error

	// --- Progress ---
	RecordProgress(ctx context.Context, params RecordProgressParams) (*RecordProgressResult, error)
	GetRecentHistory(ctx context.Context, goalId string, limit int) ([]models.GoalProgressHistory, error)

	// --- Milestones ---
	GetGoalMilestones(ctx context.Context, goalId string) ([]models.GoalMilestone, error)
	GetUpcomingMilestones(ctx context.Context, userId string, limit int) ([]models.MilestoneSummary, error)
	GetRecentAchievements(ctx context.Context, userId string, limit int) ([]models.MilestoneSummary, error)
	GetUnnotifiedAchievements(ctx context.Context, userId string) ([]models.MilestoneSummary, error)
	MarkMilestoneNotified(ctx context.Context, goalId string, percentage int64) error

	// --- Lifecycle ---
	Close()
}
