package domain

import "time"

// CompletionRecord is one finished variation run, ready for persistence.
type CompletionRecord struct {
	UserID      string
	VariationID string
	Mode        string
	Errors      int
	HintsUsed   int
	TimeSeconds int
	XPEarned    int
	CompletedAt time.Time
}

// TrainerProfile aggregates a user's training progress.
type TrainerProfile struct {
	UserID        string
	XPTotal       int
	Completions   int
	PerfectRuns   int
	LastOpening   string
	LastTrainedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const (
	learnCompletionXP = 20
	drillPerfectXP    = 100
	drillBaseXP       = 60
	drillErrorPenalty = 15
	drillMinXP        = 10
)

// XPEarned computes the award for a completed run. Learn runs earn a
// flat amount; drill runs scale down with errors but never below the
// floor, with a bonus for a perfect run.
func XPEarned(mode string, errors int) int {
	if mode != "drill" {
		return learnCompletionXP
	}
	if errors == 0 {
		return drillPerfectXP
	}
	xp := drillBaseXP - drillErrorPenalty*errors
	if xp < drillMinXP {
		return drillMinXP
	}
	return xp
}
