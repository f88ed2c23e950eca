package backend

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/celosave/savings/internal/amount"
	"github.com/celosave/savings/internal/chain"
	"github.com/celosave/savings/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

// LedgerContract is the savings contract surface the ledger backend consumes.
type LedgerContract interface {
	Address() common.Address
	UserGoals(ctx context.Context, user common.Address) ([]chain.Goal, error)
	TotalSavings(ctx context.Context, user common.Address) (*big.Int, error)
	UserStreak(ctx context.Context, user common.Address) (*big.Int, error)
	CreateSavingsGoal(ctx context.Context, name string, target, deadline *big.Int) (common.Hash, error)
	SaveToGoal(ctx context.Context, goalID, amount *big.Int) (common.Hash, error)
	Withdraw(ctx context.Context, goalID, amount *big.Int) (common.Hash, error)
	DeleteGoal(ctx context.Context, goalID *big.Int) (common.Hash, error)
}

// ValueToken funds deposits; the contract pulls from an allowance.
type ValueToken interface {
	Approve(ctx context.Context, spender common.Address, amount *big.Int) (common.Hash, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
}

// Confirmer blocks until a submitted transaction is mined successfully.
type Confirmer interface {
	WaitConfirmed(ctx context.Context, hash common.Hash) error
}

// Ledger drives the on-chain contract. Every mutation is signed by one configured account,
// so the owner passed in must be that account.
type Ledger struct {
	contract       LedgerContract
	token          ValueToken
	confirmer      Confirmer
	signer         common.Address
	confirmTimeout time.Duration
}

func NewLedger(contract LedgerContract, token ValueToken, confirmer Confirmer, signer common.Address, confirmTimeout time.Duration) *Ledger {
	return &Ledger{
		contract:       contract,
		token:          token,
		confirmer:      confirmer,
		signer:         signer,
		confirmTimeout: confirmTimeout,
	}
}

func (l *Ledger) Mode() model.Mode {
	return model.ModeLedger
}

func (l *Ledger) configured() bool {
	return l.contract != nil && l.contract.Address() != (common.Address{})
}

func (l *Ledger) Goals(ctx context.Context, owner string) ([]*model.Goal, error) {
	user, ok := l.reader(owner)
	if !ok {
		return []*model.Goal{}, nil
	}

	raw, err := l.contract.UserGoals(ctx, user)
	if err != nil {
		return nil, wrap(model.ModeLedger, "goals", transport(err))
	}

	goals := make([]*model.Goal, 0, len(raw))
	for _, g := range raw {
		if g.Id == nil || !g.Id.IsUint64() {
			slog.Warn("skipping ledger goal with out of range id", "owner", user.Hex(), "id", g.Id)
			continue
		}
		goal := &model.Goal{
			ID:            g.Id.Uint64(),
			Name:          g.Name,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
			Deadline:      int64Of(g.Deadline),
			CreatedAt:     int64Of(g.CreatedAt),
			Streak:        uint64Of(g.Streak),
			Owner:         user.Hex(),
		}
		// isActive from the contract is not trusted; completion follows the amounts
		goal.Recompute()
		goals = append(goals, goal)
	}
	return goals, nil
}

func (l *Ledger) TotalSavings(ctx context.Context, owner string) (*big.Int, error) {
	user, ok := l.reader(owner)
	if !ok {
		return new(big.Int), nil
	}
	total, err := l.contract.TotalSavings(ctx, user)
	if err != nil {
		return nil, wrap(model.ModeLedger, "total savings", transport(err))
	}
	return total, nil
}

func (l *Ledger) Streak(ctx context.Context, owner string) (uint64, error) {
	user, ok := l.reader(owner)
	if !ok {
		return 0, nil
	}
	streak, err := l.contract.UserStreak(ctx, user)
	if err != nil {
		return 0, wrap(model.ModeLedger, "streak", transport(err))
	}
	return uint64Of(streak), nil
}

func (l *Ledger) CreateGoal(ctx context.Context, owner, name string, target *big.Int, deadline, createdAt int64) (*Operation, error) {
	user, err := l.writer(owner)
	if err != nil {
		return nil, wrap(model.ModeLedger, "create", err)
	}
	if !amount.Positive(target) {
		return nil, wrap(model.ModeLedger, "create", amount.ErrInvalidAmount)
	}

	op := newOperation(model.ModeLedger, KindCreate, user.Hex(), 0, target)
	hash, err := l.contract.CreateSavingsGoal(ctx, name, target, big.NewInt(deadline))
	if err != nil {
		return nil, wrap(model.ModeLedger, "create", transport(err))
	}
	op.submitted(hash.Hex())

	go l.finish(ctx, op, func(wctx context.Context) error {
		return l.confirm(wctx, hash)
	})
	return op, nil
}

// Deposit is two-phase: approve the contract for amount, and only after that approval
// is mined and the allowance is visible, submit saveToGoal.
func (l *Ledger) Deposit(ctx context.Context, owner string, goalID uint64, amt *big.Int) (*Operation, error) {
	user, err := l.writer(owner)
	if err != nil {
		return nil, wrap(model.ModeLedger, "deposit", err)
	}
	if !amount.Positive(amt) {
		return nil, wrap(model.ModeLedger, "deposit", amount.ErrInvalidAmount)
	}

	balance, err := l.token.BalanceOf(ctx, user)
	if err != nil {
		return nil, wrap(model.ModeLedger, "deposit", transport(err))
	}
	if balance.Cmp(amt) < 0 {
		return nil, wrap(model.ModeLedger, "deposit", fmt.Errorf("%w: balance %s, want %s",
			ErrInsufficientFunds, amount.Display(balance), amount.Display(amt)))
	}

	op := newOperation(model.ModeLedger, KindDeposit, user.Hex(), goalID, amt)
	spender := l.contract.Address()
	approval, err := l.token.Approve(ctx, spender, amt)
	if err != nil {
		return nil, wrap(model.ModeLedger, "deposit", fmt.Errorf("%w: %w", ErrApprovalFailed, err))
	}
	op.submitted(approval.Hex())
	slog.Info("deposit approval submitted", "owner", user.Hex(), "goal_id", goalID, "tx", approval.Hex())

	go l.finish(ctx, op, func(wctx context.Context) error {
		err := l.confirmer.WaitConfirmed(wctx, approval)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrApprovalFailed, err)
		}

		allowance, err := l.token.Allowance(wctx, user, spender)
		if err != nil {
			return transport(err)
		}
		if allowance.Cmp(amt) < 0 {
			return fmt.Errorf("%w: allowance %s below %s", ErrApprovalFailed, allowance, amt)
		}

		hash, err := l.contract.SaveToGoal(wctx, new(big.Int).SetUint64(goalID), amt)
		if err != nil {
			return transport(err)
		}
		op.submitted(hash.Hex())
		slog.Info("deposit submitted", "owner", user.Hex(), "goal_id", goalID, "tx", hash.Hex())

		return l.confirm(wctx, hash)
	})
	return op, nil
}

func (l *Ledger) Withdraw(ctx context.Context, owner string, goalID uint64, amt *big.Int) (*Operation, error) {
	user, err := l.writer(owner)
	if err != nil {
		return nil, wrap(model.ModeLedger, "withdraw", err)
	}
	if !amount.Positive(amt) {
		return nil, wrap(model.ModeLedger, "withdraw", amount.ErrInvalidAmount)
	}

	op := newOperation(model.ModeLedger, KindWithdraw, user.Hex(), goalID, amt)
	hash, err := l.contract.Withdraw(ctx, new(big.Int).SetUint64(goalID), amt)
	if err != nil {
		return nil, wrap(model.ModeLedger, "withdraw", transport(err))
	}
	op.submitted(hash.Hex())

	go l.finish(ctx, op, func(wctx context.Context) error {
		return l.confirm(wctx, hash)
	})
	return op, nil
}

func (l *Ledger) DeleteGoal(ctx context.Context, owner string, goalID uint64) (*Operation, error) {
	user, err := l.writer(owner)
	if err != nil {
		return nil, wrap(model.ModeLedger, "delete", err)
	}

	op := newOperation(model.ModeLedger, KindDelete, user.Hex(), goalID, nil)
	hash, err := l.contract.DeleteGoal(ctx, new(big.Int).SetUint64(goalID))
	if err != nil {
		return nil, wrap(model.ModeLedger, "delete", transport(err))
	}
	op.submitted(hash.Hex())

	go l.finish(ctx, op, func(wctx context.Context) error {
		return l.confirm(wctx, hash)
	})
	return op, nil
}

// finish runs the confirmation steps detached from the request context, then settles op
// and re-fetches the owner's goals once.
func (l *Ledger) finish(ctx context.Context, op *Operation, steps func(context.Context) error) {
	wctx := context.WithoutCancel(ctx)
	if l.confirmTimeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(wctx, l.confirmTimeout)
		defer cancel()
	}

	err := steps(wctx)
	if err != nil {
		slog.Error("ledger operation failed", "error", err, "op", op.Kind, "owner", op.Owner, "goal_id", op.GoalID)
		op.fail(wrap(model.ModeLedger, string(op.Kind), err))
		return
	}

	goals, err := l.Goals(wctx, op.Owner)
	if err != nil {
		slog.Warn("refetch after confirmation failed", "error", err, "owner", op.Owner)
		op.confirm(nil, nil, false)
		return
	}

	var goal *model.Goal
	if op.Kind != KindCreate && op.Kind != KindDelete {
		for _, g := range goals {
			if g.ID == op.GoalID {
				goal = g.Clone()
				break
			}
		}
	}
	slog.Info("ledger operation confirmed", "op", op.Kind, "owner", op.Owner, "goal_id", op.GoalID, "txs", op.TxHashes())
	op.confirm(goal, goals, true)
}

func (l *Ledger) confirm(ctx context.Context, hash common.Hash) error {
	err := l.confirmer.WaitConfirmed(ctx, hash)
	if err != nil {
		return transport(err)
	}
	return nil
}

func (l *Ledger) reader(owner string) (common.Address, bool) {
	if !l.configured() || !common.IsHexAddress(owner) {
		return common.Address{}, false
	}
	return common.HexToAddress(owner), true
}

func (l *Ledger) writer(owner string) (common.Address, error) {
	if !l.configured() {
		return common.Address{}, ErrBackendNotConfigured
	}
	if l.signer == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %w", ErrBackendNotConfigured, chain.ErrNoSigner)
	}
	if !common.IsHexAddress(owner) || common.HexToAddress(owner) != l.signer {
		return common.Address{}, fmt.Errorf("%w: %s", ErrCallerMismatch, owner)
	}
	return l.signer, nil
}

func int64Of(v *big.Int) int64 {
	if v == nil || !v.IsInt64() {
		return 0
	}
	return v.Int64()
}

func uint64Of(v *big.Int) uint64 {
	if v == nil || !v.IsUint64() {
		return 0
	}
	return v.Uint64()
}
