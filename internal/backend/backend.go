// Package backend puts the relational store and the on-chain ledger behind one goal interface.
package backend

import (
	"context"
	"math/big"

	"github.com/celosave/savings/internal/model"
)

// Backend is the capability set shared by both systems of record. Ids are numeric and
// amounts are base units on both; each implementation translates at its own boundary.
//
// Mutations return an Operation. The relational backend returns it already Confirmed;
// the ledger backend returns it Pending and settles it once the chain confirms.
type Backend interface {
	Mode() model.Mode

	// Reads report empty results rather than failing when no caller is known.
	Goals(ctx context.Context, owner string) ([]*model.Goal, error)
	TotalSavings(ctx context.Context, owner string) (*big.Int, error)
	Streak(ctx context.Context, owner string) (uint64, error)

	// createdAt is the caller's clock; the ledger stamps goals with block time and ignores it.
	CreateGoal(ctx context.Context, owner, name string, target *big.Int, deadline, createdAt int64) (*Operation, error)
	Deposit(ctx context.Context, owner string, goalID uint64, amount *big.Int) (*Operation, error)
	Withdraw(ctx context.Context, owner string, goalID uint64, amount *big.Int) (*Operation, error)
	DeleteGoal(ctx context.Context, owner string, goalID uint64) (*Operation, error)
}
