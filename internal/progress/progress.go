// Package progress derives completion figures and a status label from a goal's raw amounts.
package progress

import (
	"math/big"
	"time"
)

type Status string

const (
	StatusCompleted   Status = "Completed"
	StatusOverdue     Status = "Overdue"
	StatusUrgent      Status = "Urgent"
	StatusAlmostThere Status = "Almost There"
	StatusOnTrack     Status = "On Track"
	StatusInProgress  Status = "In Progress"
)

const secondsPerDay = 86400

// UrgentDays is the daysLeft threshold at or below which an open goal is Urgent.
const UrgentDays = 7

// Progress is recomputed on every read and never stored.
type Progress struct {
	Percentage int
	Remaining  *big.Int
	DaysLeft   int64
	IsOverdue  bool
	Status     Status
}

// Calculate evaluates a goal against now.
func Calculate(target, current *big.Int, deadline int64, now time.Time) Progress {
	target = orZero(target)
	current = orZero(current)
	unix := now.Unix()

	p := Progress{
		Percentage: percentage(target, current),
		Remaining:  new(big.Int).Sub(target, current),
		DaysLeft:   daysLeft(deadline, unix),
	}
	reached := current.Cmp(target) >= 0
	p.IsOverdue = deadline < unix && !reached

	switch {
	case reached:
		p.Status = StatusCompleted
	case p.IsOverdue:
		p.Status = StatusOverdue
	case p.DaysLeft <= UrgentDays:
		p.Status = StatusUrgent
	case p.Percentage >= 75:
		p.Status = StatusAlmostThere
	case p.Percentage >= 50:
		p.Status = StatusOnTrack
	default:
		p.Status = StatusInProgress
	}

	return p
}

// DailySavingsNeeded spreads the remaining amount over the days left, counting at least one day.
// It is zero once nothing remains.
func DailySavingsNeeded(target, current *big.Int, deadline int64, now time.Time) *big.Int {
	remaining := new(big.Int).Sub(orZero(target), orZero(current))
	if remaining.Sign() <= 0 {
		return new(big.Int)
	}
	days := daysLeft(deadline, now.Unix())
	if days < 1 {
		days = 1
	}
	return remaining.Quo(remaining, big.NewInt(days))
}

// Calculator binds Calculate to a clock so callers can pin "now" in tests.
type Calculator struct {
	Now func() time.Time
}

func NewCalculator() *Calculator {
	return &Calculator{Now: time.Now}
}

func (c *Calculator) Calculate(target, current *big.Int, deadline int64) Progress {
	return Calculate(target, current, deadline, c.now())
}

func (c *Calculator) DailySavingsNeeded(target, current *big.Int, deadline int64) *big.Int {
	return DailySavingsNeeded(target, current, deadline, c.now())
}

func (c *Calculator) now() time.Time {
	if c == nil || c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func percentage(target, current *big.Int) int {
	if target.Sign() <= 0 {
		return 0
	}
	if current.Sign() <= 0 {
		return 0
	}
	if current.Cmp(target) >= 0 {
		return 100
	}
	pct := new(big.Int).Mul(current, big.NewInt(100))
	pct.Quo(pct, target)
	return int(pct.Int64())
}

func daysLeft(deadline, now int64) int64 {
	diff := deadline - now
	if diff <= 0 {
		return 0
	}
	return (diff + secondsPerDay - 1) / secondsPerDay
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
