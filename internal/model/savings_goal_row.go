package model

// SavingsGoalRow is a savings_goals record. Amounts are decimal strings in token units,
// deadline and created_at are Unix seconds rendered as strings.
type SavingsGoalRow struct {
	ID                 string `db:"id"`
	UserAddress        string `db:"user_address"`
	Name               string `db:"name"`
	TargetAmount       string `db:"target_amount"`
	CurrentAmount      string `db:"current_amount"`
	Deadline           string `db:"deadline"`
	CreatedAt          string `db:"created_at"`
	Completed          bool   `db:"completed"`
	CreatedAtTimestamp string `db:"created_at_timestamp"`
}
