package model

// GoalView is a goal joined with its derived progress, as served to presentation code.
// Amounts are exact decimal strings in token units; *Display fields are rounded to 2 places.
type GoalView struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Owner              string `json:"owner,omitempty"`
	TargetAmount       string `json:"targetAmount"`
	CurrentAmount      string `json:"currentAmount"`
	TargetDisplay      string `json:"targetDisplay"`
	CurrentDisplay     string `json:"currentDisplay"`
	Deadline           int64  `json:"deadline"`
	CreatedAt          int64  `json:"createdAt"`
	Completed          bool   `json:"completed"`
	IsActive           bool   `json:"isActive"`
	Streak             uint64 `json:"streak"`
	Percentage         int    `json:"percentage"`
	Remaining          string `json:"remaining"`
	DaysLeft           int64  `json:"daysLeft"`
	IsOverdue          bool   `json:"isOverdue"`
	Status             string `json:"status"`
	DailySavingsNeeded string `json:"dailySavingsNeeded"`
}

// Summary aggregates a caller's goals for dashboards.
type Summary struct {
	Mode           Mode   `json:"mode"`
	TotalSavings   string `json:"totalSavings"`
	TotalDisplay   string `json:"totalDisplay"`
	Streak         uint64 `json:"streak"`
	Pending        bool   `json:"pending"`
	GoalCount      int    `json:"goalCount"`
	CompletedCount int    `json:"completedCount"`
}
