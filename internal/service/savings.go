package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/celosave/savings/internal/amount"
	"github.com/celosave/savings/internal/backend"
	"github.com/celosave/savings/internal/events"
	"github.com/celosave/savings/internal/goalid"
	"github.com/celosave/savings/internal/metrics"
	"github.com/celosave/savings/internal/model"
	"github.com/celosave/savings/internal/progress"
	"github.com/celosave/savings/internal/validation"
	"github.com/patrickmn/go-cache"
)

var (
	ErrNoCaller          = errors.New("no caller address")
	ErrInvalidDeadline   = errors.New("deadline must be in the future")
	ErrOperationNotFound = errors.New("operation not found")
)

const publishTimeout = 5 * time.Second

// SavingsService is the single entry point to goals, whichever backend is bound.
// It keeps the most recent goal list per owner and every operation it started,
// both in TTL caches; neither is a source of truth.
type SavingsService struct {
	backend    backend.Backend
	publisher  events.Publisher
	calc       *progress.Calculator
	snapshots  *cache.Cache
	operations *cache.Cache
}

func NewSavingsService(b backend.Backend, publisher events.Publisher, snapshotTTL, operationTTL time.Duration) *SavingsService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &SavingsService{
		backend:    b,
		publisher:  publisher,
		calc:       progress.NewCalculator(),
		snapshots:  cache.New(snapshotTTL, 2*snapshotTTL),
		operations: cache.New(operationTTL, 2*operationTTL),
	}
}

// SetClock pins the time used for progress figures.
func (s *SavingsService) SetClock(now func() time.Time) {
	s.calc.Now = now
}

func (s *SavingsService) Mode() model.Mode {
	return s.backend.Mode()
}

// Goals serves the owner's most recent fetch, fetching on a miss.
func (s *SavingsService) Goals(ctx context.Context, owner string) ([]*model.Goal, error) {
	key, err := callerKey(owner)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.snapshots.Get(key); ok {
		return cloneGoals(cached.([]*model.Goal)), nil
	}
	return s.Refetch(ctx, owner)
}

// Refetch always reads the backend and replaces the cached list.
func (s *SavingsService) Refetch(ctx context.Context, owner string) ([]*model.Goal, error) {
	key, err := callerKey(owner)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	goals, err := s.backend.Goals(ctx, key)
	metrics.ObserveCall(string(s.Mode()), "goals", start, err)
	if err != nil {
		slog.Error("failed to fetch goals", "error", err, "owner", key, "mode", s.Mode())
		return nil, err
	}

	s.snapshots.SetDefault(key, cloneGoals(goals))
	return goals, nil
}

func (s *SavingsService) TotalSavings(ctx context.Context, owner string) (*big.Int, error) {
	key, err := callerKey(owner)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	total, err := s.backend.TotalSavings(ctx, key)
	metrics.ObserveCall(string(s.Mode()), "total_savings", start, err)
	return total, err
}

func (s *SavingsService) Streak(ctx context.Context, owner string) (uint64, error) {
	key, err := callerKey(owner)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	streak, err := s.backend.Streak(ctx, key)
	metrics.ObserveCall(string(s.Mode()), "streak", start, err)
	return streak, err
}

func (s *SavingsService) CreateGoal(ctx context.Context, owner, name string, target *big.Int, deadline int64) (*backend.Operation, error) {
	key, err := callerKey(owner)
	if err != nil {
		return nil, err
	}

	name, err = validation.GoalName(name)
	if err != nil {
		return nil, err
	}
	if deadline <= s.calc.Now().Unix() {
		return nil, ErrInvalidDeadline
	}

	start := time.Now()
	op, err := s.backend.CreateGoal(ctx, key, name, target, deadline, s.calc.Now().Unix())
	metrics.ObserveCall(string(s.Mode()), "create", start, err)
	if err != nil {
		slog.Warn("create goal rejected", "error", err, "owner", key)
		return nil, err
	}

	s.track(op)
	return op, nil
}

func (s *SavingsService) Deposit(ctx context.Context, owner string, goalID uint64, amt *big.Int) (*backend.Operation, error) {
	key, err := callerKey(owner)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	op, err := s.backend.Deposit(ctx, key, goalID, amt)
	metrics.ObserveCall(string(s.Mode()), "deposit", start, err)
	if err != nil {
		slog.Warn("deposit rejected", "error", err, "owner", key, "goal_id", goalID)
		return nil, err
	}

	s.track(op)
	return op, nil
}

func (s *SavingsService) Withdraw(ctx context.Context, owner string, goalID uint64, amt *big.Int) (*backend.Operation, error) {
	key, err := callerKey(owner)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	op, err := s.backend.Withdraw(ctx, key, goalID, amt)
	metrics.ObserveCall(string(s.Mode()), "withdraw", start, err)
	if err != nil {
		slog.Warn("withdraw rejected", "error", err, "owner", key, "goal_id", goalID)
		return nil, err
	}

	s.track(op)
	return op, nil
}

func (s *SavingsService) DeleteGoal(ctx context.Context, owner string, goalID uint64) (*backend.Operation, error) {
	key, err := callerKey(owner)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	op, err := s.backend.DeleteGoal(ctx, key, goalID)
	metrics.ObserveCall(string(s.Mode()), "delete", start, err)
	if err != nil {
		slog.Warn("delete rejected", "error", err, "owner", key, "goal_id", goalID)
		return nil, err
	}

	s.track(op)
	return op, nil
}

// Operation looks up an operation started by this process for owner.
func (s *SavingsService) Operation(owner, id string) (*backend.Operation, error) {
	key, err := callerKey(owner)
	if err != nil {
		return nil, err
	}

	v, ok := s.operations.Get(id)
	if !ok {
		return nil, ErrOperationNotFound
	}
	op := v.(*backend.Operation)
	if !strings.EqualFold(op.Owner, key) {
		return nil, ErrOperationNotFound
	}
	return op, nil
}

// Pending reports whether any of owner's operations still await confirmation.
// Relational operations settle before they are returned, so it is always false there.
func (s *SavingsService) Pending(owner string) bool {
	key, err := callerKey(owner)
	if err != nil {
		return false
	}

	for _, item := range s.operations.Items() {
		op := item.Object.(*backend.Operation)
		if strings.EqualFold(op.Owner, key) && op.State() == backend.StatePending {
			return true
		}
	}
	return false
}

// Views joins the owner's goals with their progress and display strings.
func (s *SavingsService) Views(ctx context.Context, owner string, refresh bool) ([]model.GoalView, error) {
	var (
		goals []*model.Goal
		err   error
	)
	if refresh {
		goals, err = s.Refetch(ctx, owner)
	} else {
		goals, err = s.Goals(ctx, owner)
	}
	if err != nil {
		return nil, err
	}

	views := make([]model.GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, s.View(g))
	}
	return views, nil
}

// View derives the presentation form of one goal.
func (s *SavingsService) View(g *model.Goal) model.GoalView {
	p := s.calc.Calculate(g.TargetAmount, g.CurrentAmount, g.Deadline)
	daily := s.calc.DailySavingsNeeded(g.TargetAmount, g.CurrentAmount, g.Deadline)

	return model.GoalView{
		ID:                 goalid.Format(g.ID),
		Name:               g.Name,
		Owner:              g.Owner,
		TargetAmount:       amount.FromBaseUnits(g.TargetAmount, amount.Decimals),
		CurrentAmount:      amount.FromBaseUnits(g.CurrentAmount, amount.Decimals),
		TargetDisplay:      amount.Display(g.TargetAmount),
		CurrentDisplay:     amount.Display(g.CurrentAmount),
		Deadline:           g.Deadline,
		CreatedAt:          g.CreatedAt,
		Completed:          g.Completed,
		IsActive:           g.IsActive(),
		Streak:             g.Streak,
		Percentage:         p.Percentage,
		Remaining:          amount.FromBaseUnits(p.Remaining, amount.Decimals),
		DaysLeft:           p.DaysLeft,
		IsOverdue:          p.IsOverdue,
		Status:             string(p.Status),
		DailySavingsNeeded: amount.Display(daily),
	}
}

func (s *SavingsService) Summary(ctx context.Context, owner string) (*model.Summary, error) {
	goals, err := s.Goals(ctx, owner)
	if err != nil {
		return nil, err
	}
	total, err := s.TotalSavings(ctx, owner)
	if err != nil {
		return nil, err
	}
	streak, err := s.Streak(ctx, owner)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, g := range goals {
		if g.Completed {
			completed++
		}
	}

	return &model.Summary{
		Mode:           s.Mode(),
		TotalSavings:   amount.FromBaseUnits(total, amount.Decimals),
		TotalDisplay:   amount.Display(total),
		Streak:         streak,
		Pending:        s.Pending(owner),
		GoalCount:      len(goals),
		CompletedCount: completed,
	}, nil
}

// track registers op and arranges a single cache refresh and event once it settles.
func (s *SavingsService) track(op *backend.Operation) {
	s.operations.SetDefault(op.ID, op)

	mode := string(op.Mode)
	wasPending := op.State() == backend.StatePending
	if wasPending {
		metrics.OperationStarted(mode)
	}

	op.OnDone(func(op *backend.Operation) {
		if wasPending {
			metrics.OperationSettled(mode, string(op.Kind), string(op.State()))
		}

		key := strings.ToLower(op.Owner)
		if goals, ok := op.Goals(); ok {
			s.snapshots.SetDefault(key, goals)
		} else {
			s.snapshots.Delete(key)
		}

		if op.State() != backend.StateConfirmed {
			return
		}
		s.publish(op)
	})
}

func (s *SavingsService) publish(op *backend.Operation) {
	eventType := map[backend.Kind]string{
		backend.KindCreate:   events.TypeGoalCreated,
		backend.KindDeposit:  events.TypeGoalSaved,
		backend.KindWithdraw: events.TypeGoalWithdrawn,
		backend.KindDelete:   events.TypeGoalDeleted,
	}[op.Kind]

	data := events.GoalEvent{
		OperationID: op.ID,
		Mode:        string(op.Mode),
		Owner:       op.Owner,
		TxHashes:    op.TxHashes(),
	}
	if op.Kind != backend.KindCreate || op.GoalID != 0 {
		data.GoalID = goalid.Format(op.GoalID)
	}
	if op.Amount != nil {
		data.Amount = op.Amount.String()
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err := s.publisher.Publish(ctx, eventType, data)
	if err != nil {
		slog.Error("failed to publish goal event", "error", err, "type", eventType, "operation_id", op.ID)
	}
}

func callerKey(owner string) (string, error) {
	if strings.TrimSpace(owner) == "" {
		return "", ErrNoCaller
	}
	key, err := validation.Address(owner)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, owner)
	}
	return key, nil
}

func cloneGoals(goals []*model.Goal) []*model.Goal {
	out := make([]*model.Goal, len(goals))
	for i, g := range goals {
		out[i] = g.Clone()
	}
	return out
}
