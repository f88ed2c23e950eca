package backend

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/celosave/savings/internal/model"
	"github.com/google/uuid"
)

type State string

const (
	StateIdle      State = "idle"
	StatePending   State = "pending"
	StateConfirmed State = "confirmed"
	StateFailed    State = "failed"
)

type Kind string

const (
	KindCreate   Kind = "create"
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindDelete   Kind = "delete"
)

// Operation tracks one mutating call from submission to its final state.
// Each call gets its own token; unrelated operations never share state.
type Operation struct {
	ID        string
	Kind      Kind
	Mode      model.Mode
	Owner     string
	GoalID    uint64
	Amount    *big.Int
	CreatedAt time.Time

	mu       sync.Mutex
	state    State
	err      error
	txHashes []string
	goal     *model.Goal
	goals    []*model.Goal
	refetch  bool
	done     chan struct{}
	onDone   []func(*Operation)
}

func newOperation(mode model.Mode, kind Kind, owner string, goalID uint64, amount *big.Int) *Operation {
	op := &Operation{
		ID:        uuid.NewString(),
		Kind:      kind,
		Mode:      mode,
		Owner:     owner,
		GoalID:    goalID,
		CreatedAt: time.Now().UTC(),
		state:     StateIdle,
		done:      make(chan struct{}),
	}
	if amount != nil {
		op.Amount = new(big.Int).Set(amount)
	}
	return op
}

func (o *Operation) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Err is the failure reason once the operation is Failed.
func (o *Operation) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Done is closed when the operation reaches Confirmed or Failed.
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the operation settles or ctx ends. It never cancels the operation itself.
func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Operation) TxHashes() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.txHashes...)
}

// Goal is the created or mutated goal when the backend reports it synchronously.
func (o *Operation) Goal() *model.Goal {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.goal == nil {
		return nil
	}
	return o.goal.Clone()
}

// Goals is the owner's goal list as re-fetched after the mutation settled.
// ok is false when no re-fetch result is available.
func (o *Operation) Goals() (goals []*model.Goal, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.refetch {
		return nil, false
	}
	return cloneGoals(o.goals), true
}

// OnDone registers fn to run once the operation settles. If it already has, fn runs now.
func (o *Operation) OnDone(fn func(*Operation)) {
	o.mu.Lock()
	if o.state == StateConfirmed || o.state == StateFailed {
		o.mu.Unlock()
		fn(o)
		return
	}
	o.onDone = append(o.onDone, fn)
	o.mu.Unlock()
}

func (o *Operation) submitted(txHash string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = StatePending
	if txHash != "" {
		o.txHashes = append(o.txHashes, txHash)
	}
}

func (o *Operation) confirm(goal *model.Goal, goals []*model.Goal, refetched bool) {
	o.settle(StateConfirmed, nil, goal, goals, refetched)
}

func (o *Operation) fail(err error) {
	o.settle(StateFailed, err, nil, nil, false)
}

func (o *Operation) settle(state State, err error, goal *model.Goal, goals []*model.Goal, refetched bool) {
	o.mu.Lock()
	if o.state == StateConfirmed || o.state == StateFailed {
		o.mu.Unlock()
		return
	}
	o.state = state
	o.err = err
	o.goal = goal
	o.goals = goals
	o.refetch = refetched
	callbacks := o.onDone
	o.onDone = nil
	o.mu.Unlock()

	// callbacks finish before waiters wake, so Wait observes their effects
	for _, fn := range callbacks {
		fn(o)
	}
	close(o.done)
}

func cloneGoals(goals []*model.Goal) []*model.Goal {
	out := make([]*model.Goal, len(goals))
	for i, g := range goals {
		out[i] = g.Clone()
	}
	return out
}
