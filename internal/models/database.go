package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal status values.
const (
	GoalStatusActive    = "active"
	GoalStatusPaused    = "paused"
	GoalStatusCompleted = "completed"
	GoalStatusCancelled = "cancelled"
)

// User represents a user in the system
type User struct {
	Id        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Account represents a financial account a savings goal is linked to.
// Its balance is the source of truth the Progress Recorder mirrors.
type Account struct {
	Id        string          `db:"id"`
	UserId    string          `db:"user_id"`
	Name      string          `db:"name"`
	Balance   decimal.Decimal `db:"balance"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// SavingsGoal represents a user-defined savings target tied to one account.
// CurrentAmount mirrors the linked account's balance at the last
// recalculation; it is never mutated outside the Progress Recorder.
// InitialBalance is the balance snapshot at creation and is the zero-point
// for goal-driven savings.
type SavingsGoal struct {
	Id             string          `db:"id"`
	UserId         string          `db:"user_id"`
	AccountId      string          `db:"account_id"`
	CategoryId     string          `db:"category_id"`
	Name           string          `db:"name"`
	Description    string          `db:"description"`
	TargetAmount   decimal.Decimal `db:"target_amount"`
	CurrentAmount  decimal.Decimal `db:"current_amount"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
	TargetDate     time.Time       `db:"target_date"`
	Priority       int             `db:"priority"`
	Status         string          `db:"status"`
	Version        int64           `db:"version"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// GoalMilestone is a fixed percentage checkpoint of a goal's target.
// IsAchieved is monotonic: once true it never reverts, even if the goal's
// current amount later drops below the threshold.
type GoalMilestone struct {
	Id             string          `db:"id"`
	GoalId         string          `db:"goal_id"`
	Percentage     int64           `db:"percentage"`
	TargetAmount   decimal.Decimal `db:"target_amount"`
	AchievedAmount decimal.Decimal `db:"achieved_amount"`
	AchievedAt     *time.Time      `db:"achieved_at"`
	IsAchieved     bool            `db:"is_achieved"`
	Notified       bool            `db:"notified"`
	CreatedAt      time.Time       `db:"created_at"`
}

// GoalProgressHistory is one append-only entry in the ledger of balance
// deltas used to estimate savings velocity. Entries are never edited or
// deleted after insertion.
type GoalProgressHistory struct {
	Id                 string          `db:"id"`
	GoalId             string          `db:"goal_id"`
	PreviousAmount     decimal.Decimal `db:"previous_amount"`
	NewAmount          decimal.Decimal `db:"new_amount"`
	ChangeAmount       decimal.Decimal `db:"change_amount"`
	AccountBalance     decimal.Decimal `db:"account_balance"`
	ProgressPercentage decimal.Decimal `db:"progress_percentage"`
	TransactionId      string          `db:"transaction_id"`
	RecordedAt         time.Time       `db:"recorded_at"`
}
