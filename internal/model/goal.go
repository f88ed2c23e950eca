package model

import (
	"math/big"
)

// Mode identifies the system of record a deployment is bound to.
type Mode string

const (
	ModeRelational Mode = "relational"
	ModeLedger     Mode = "ledger"
)

// Goal is a savings goal in the shape every backend reports it.
// Amounts are base units (18 fractional digits); timestamps are Unix seconds.
type Goal struct {
	ID            uint64
	Name          string
	TargetAmount  *big.Int
	CurrentAmount *big.Int
	Deadline      int64
	CreatedAt     int64
	Completed     bool
	Streak        uint64
	Owner         string
}

// IsActive is the ledger-style view of Completed.
func (g *Goal) IsActive() bool {
	return !g.Completed
}

// Recompute derives Completed from the amounts instead of trusting stored flags.
func (g *Goal) Recompute() {
	if g.TargetAmount == nil {
		g.TargetAmount = new(big.Int)
	}
	if g.CurrentAmount == nil {
		g.CurrentAmount = new(big.Int)
	}
	g.Completed = g.CurrentAmount.Cmp(g.TargetAmount) >= 0
}

// Clone returns a deep copy so cached goals cannot be mutated through a caller's reference.
func (g *Goal) Clone() *Goal {
	c := *g
	if g.TargetAmount != nil {
		c.TargetAmount = new(big.Int).Set(g.TargetAmount)
	}
	if g.CurrentAmount != nil {
		c.CurrentAmount = new(big.Int).Set(g.CurrentAmount)
	}
	return &c
}
