package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/celosave/savings/internal/amount"
	"github.com/celosave/savings/internal/goalid"
	"github.com/celosave/savings/internal/model"
	"github.com/celosave/savings/internal/repository"
	"github.com/google/uuid"
)

// Relational keeps goals as savings_goals rows. Numeric ids are derived from the row's
// opaque id on every read and never stored.
type Relational struct {
	repo repository.SavingsGoalRepository
}

func NewRelational(repo repository.SavingsGoalRepository) *Relational {
	return &Relational{repo: repo}
}

func (r *Relational) Mode() model.Mode {
	return model.ModeRelational
}

func (r *Relational) Goals(ctx context.Context, owner string) ([]*model.Goal, error) {
	_, goals, err := r.fetch(ctx, owner)
	if err != nil {
		return nil, wrap(model.ModeRelational, "goals", err)
	}
	return goals, nil
}

// TotalSavings sums current amounts; no aggregate is stored.
func (r *Relational) TotalSavings(ctx context.Context, owner string) (*big.Int, error) {
	goals, err := r.Goals(ctx, owner)
	if err != nil {
		return nil, err
	}
	total := new(big.Int)
	for _, g := range goals {
		total.Add(total, g.CurrentAmount)
	}
	return total, nil
}

// Streak has no relational source.
func (r *Relational) Streak(ctx context.Context, owner string) (uint64, error) {
	return 0, nil
}

func (r *Relational) CreateGoal(ctx context.Context, owner, name string, target *big.Int, deadline, createdAt int64) (*Operation, error) {
	owner = normalizeOwner(owner)
	if owner == "" {
		return nil, wrap(model.ModeRelational, "create", ErrNoOwner)
	}
	if !amount.Positive(target) {
		return nil, wrap(model.ModeRelational, "create", amount.ErrInvalidAmount)
	}
	op := newOperation(model.ModeRelational, KindCreate, owner, 0, target)

	created := time.Unix(createdAt, 0).UTC()
	row, err := r.repo.Create(ctx, &model.SavingsGoalRow{
		ID:                 uuid.NewString(),
		UserAddress:        owner,
		Name:               name,
		TargetAmount:       amount.FromBaseUnits(target, amount.Decimals),
		CurrentAmount:      "0",
		Deadline:           strconv.FormatInt(deadline, 10),
		CreatedAt:          strconv.FormatInt(createdAt, 10),
		Completed:          false,
		CreatedAtTimestamp: created.Format(time.RFC3339),
	})
	if err != nil {
		return nil, wrap(model.ModeRelational, "create", transport(err))
	}

	goal, err := rowToGoal(row)
	if err != nil {
		return nil, wrap(model.ModeRelational, "create", err)
	}
	op.GoalID = goal.ID

	slog.Info("goal created", "mode", model.ModeRelational, "owner", owner, "goal_id", goal.ID, "row_id", row.ID)
	r.settle(ctx, op, goal)
	return op, nil
}

func (r *Relational) Deposit(ctx context.Context, owner string, goalID uint64, amt *big.Int) (*Operation, error) {
	return r.adjust(ctx, KindDeposit, owner, goalID, amt)
}

func (r *Relational) Withdraw(ctx context.Context, owner string, goalID uint64, amt *big.Int) (*Operation, error) {
	return r.adjust(ctx, KindWithdraw, owner, goalID, amt)
}

func (r *Relational) DeleteGoal(ctx context.Context, owner string, goalID uint64) (*Operation, error) {
	owner = normalizeOwner(owner)
	op := newOperation(model.ModeRelational, KindDelete, owner, goalID, nil)

	row, _, err := r.find(ctx, owner, goalID)
	if err != nil {
		return nil, wrap(model.ModeRelational, "delete", err)
	}

	err = r.repo.Delete(ctx, owner, row.ID)
	if err != nil {
		return nil, wrap(model.ModeRelational, "delete", repoErr(err))
	}

	slog.Info("goal deleted", "mode", model.ModeRelational, "owner", owner, "goal_id", goalID, "row_id", row.ID)
	r.settle(ctx, op, nil)
	return op, nil
}

// adjust applies a deposit or withdrawal through a conditional update on the amount it read.
func (r *Relational) adjust(ctx context.Context, kind Kind, owner string, goalID uint64, amt *big.Int) (*Operation, error) {
	owner = normalizeOwner(owner)
	opName := string(kind)
	if !amount.Positive(amt) {
		return nil, wrap(model.ModeRelational, opName, amount.ErrInvalidAmount)
	}
	op := newOperation(model.ModeRelational, kind, owner, goalID, amt)

	row, goal, err := r.find(ctx, owner, goalID)
	if err != nil {
		return nil, wrap(model.ModeRelational, opName, err)
	}

	next := new(big.Int)
	switch kind {
	case KindDeposit:
		next.Add(goal.CurrentAmount, amt)
	case KindWithdraw:
		if amt.Cmp(goal.CurrentAmount) > 0 {
			return nil, wrap(model.ModeRelational, opName, fmt.Errorf("%w: have %s, want %s",
				ErrInsufficientFunds, amount.FromBaseUnits(goal.CurrentAmount, amount.Decimals), amount.FromBaseUnits(amt, amount.Decimals)))
		}
		next.Sub(goal.CurrentAmount, amt)
	}

	updated := goal.Clone()
	updated.CurrentAmount = next
	updated.Recompute()

	err = r.repo.UpdateAmount(ctx, owner, row.ID, row.CurrentAmount, amount.FromBaseUnits(next, amount.Decimals), updated.Completed)
	if err != nil {
		return nil, wrap(model.ModeRelational, opName, repoErr(err))
	}

	slog.Info("goal amount updated",
		"mode", model.ModeRelational,
		"op", kind,
		"owner", owner,
		"goal_id", goalID,
		"completed", updated.Completed,
	)
	r.settle(ctx, op, updated)
	return op, nil
}

// settle confirms op and attaches the owner's re-fetched goal list.
// A failed re-fetch does not undo the mutation; the operation is still Confirmed.
func (r *Relational) settle(ctx context.Context, op *Operation, goal *model.Goal) {
	op.submitted("")
	_, goals, err := r.fetch(ctx, op.Owner)
	if err != nil {
		slog.Warn("refetch after mutation failed", "error", err, "owner", op.Owner, "op", op.Kind)
		op.confirm(goal, nil, false)
		return
	}
	op.confirm(goal, goals, true)
}

// find scans the owner's rows for the one whose derived id is goalID.
func (r *Relational) find(ctx context.Context, owner string, goalID uint64) (*model.SavingsGoalRow, *model.Goal, error) {
	rows, goals, err := r.fetch(ctx, owner)
	if err != nil {
		return nil, nil, err
	}

	var (
		row   *model.SavingsGoalRow
		goal  *model.Goal
		found int
	)
	for i, g := range goals {
		if g.ID == goalID {
			row, goal = rows[i], g
			found++
		}
	}

	switch {
	case found == 0:
		return nil, nil, fmt.Errorf("%w: %d", ErrGoalNotFound, goalID)
	case found > 1:
		return nil, nil, fmt.Errorf("%w: %d", ErrAmbiguousGoal, goalID)
	}
	return row, goal, nil
}

func (r *Relational) fetch(ctx context.Context, owner string) ([]*model.SavingsGoalRow, []*model.Goal, error) {
	owner = normalizeOwner(owner)
	if owner == "" {
		return nil, []*model.Goal{}, nil
	}

	rows, err := r.repo.Goals(ctx, owner)
	if err != nil {
		return nil, nil, transport(err)
	}

	goals := make([]*model.Goal, 0, len(rows))
	for _, row := range rows {
		g, err := rowToGoal(row)
		if err != nil {
			return nil, nil, err
		}
		goals = append(goals, g)
	}
	return rows, goals, nil
}

func rowToGoal(row *model.SavingsGoalRow) (*model.Goal, error) {
	id, err := goalid.NumericID(row.ID)
	if err != nil {
		return nil, err
	}
	target, err := amount.ToBaseUnits(row.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("row %s target: %w", row.ID, err)
	}
	current, err := amount.ToBaseUnits(row.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("row %s current: %w", row.ID, err)
	}
	deadline, err := strconv.ParseInt(row.Deadline, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("row %s deadline %q: %w", row.ID, row.Deadline, err)
	}
	createdAt, err := strconv.ParseInt(row.CreatedAt, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("row %s created_at %q: %w", row.ID, row.CreatedAt, err)
	}

	g := &model.Goal{
		ID:            id,
		Name:          row.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
		CreatedAt:     createdAt,
		Owner:         row.UserAddress,
	}
	// the stored flag is ignored; completion follows the amounts
	g.Recompute()
	return g, nil
}

func repoErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrGoalNotFound):
		return ErrGoalNotFound
	case errors.Is(err, repository.ErrGoalConflict):
		return ErrGoalConflict
	default:
		return transport(err)
	}
}

func normalizeOwner(owner string) string {
	return strings.ToLower(strings.TrimSpace(owner))
}
