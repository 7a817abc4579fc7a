package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendDirection classifies how the savings velocity is moving over the
// sampled history window.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// PaceStatus classifies whether a goal's actual savings velocity is
// sufficient to reach its target by the target date.
type PaceStatus string

const (
	PaceOnTrack PaceStatus = "on_track"
	PaceBehind  PaceStatus = "behind"
)

// SavingsRate is the estimated savings velocity derived from the most
// recent progress-history entries. With fewer than two entries all rates
// are zero and the trend is stable.
type SavingsRate struct {
	DailyRate   decimal.Decimal
	WeeklyRate  decimal.Decimal
	MonthlyRate decimal.Decimal
	AverageRate decimal.Decimal
	Trend       TrendDirection
	SampleCount int
}

// ProgressUpdate is the result of one progress recalculation.
// MilestoneTriggered is the percentage of the milestone crossed by this
// update, or zero when none was crossed. The caller decides whether and
// how to notify the user.
type ProgressUpdate struct {
	PreviousAmount     decimal.Decimal
	NewAmount          decimal.Decimal
	ChangeAmount       decimal.Decimal
	ProgressPercentage decimal.Decimal
	MilestoneTriggered int64
	GoalCompleted      bool
}

// ProjectionPoint is one step on the projected savings curve, paired with
// the naive linear target line for visual comparison.
type ProjectionPoint struct {
	Month           int
	Date            time.Time
	ProjectedAmount decimal.Decimal
	MonthlyTarget   decimal.Decimal
}

// TimelineProjection extrapolates the estimated savings velocity forward
// to a completion date. ConfidenceLevel is a heuristic 0-100 score based
// on trend and rate consistency. CompletesAtCurrentRate is false when the
// daily rate is zero or negative; the projected date is then pushed out to
// a far horizon.
type TimelineProjection struct {
	GoalId                  string
	CurrentAmount           decimal.Decimal
	TargetAmount            decimal.Decimal
	RemainingAmount         decimal.Decimal
	TargetDate              time.Time
	ProjectedCompletionDate time.Time
	CompletesAtCurrentRate  bool
	VarianceInDays          int
	IsOnTrack               bool
	ConfidenceLevel         int
	SavingsRate             SavingsRate
	RequiredDailyRate       decimal.Decimal
	RequiredMonthlySavings  decimal.Decimal
	ProjectionData          []ProjectionPoint
}

// MilestoneSummary is a milestone paired with its goal for cross-goal
// analytics listings.
type MilestoneSummary struct {
	GoalId         string
	GoalName       string
	Percentage     int64
	TargetAmount   decimal.Decimal
	AchievedAmount decimal.Decimal
	AchievedAt     *time.Time
}

// GoalAnalytics is the portfolio-level rollup across all of a user's goals.
type GoalAnalytics struct {
	TotalGoals         int
	ActiveGoals        int
	CompletedGoals     int
	TotalTargetAmount  decimal.Decimal
	TotalCurrentAmount decimal.Decimal
	AverageProgress    decimal.Decimal
	OnTrackGoals       int
	BehindGoals        int
	GoalPace           map[string]PaceStatus
	UpcomingMilestones []MilestoneSummary
	RecentAchievements []MilestoneSummary
}
