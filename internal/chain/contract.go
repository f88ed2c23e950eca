package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Goal mirrors the contract's SavingsGoal tuple.
type Goal struct {
	Id            *big.Int
	Name          string
	TargetAmount  *big.Int
	CurrentAmount *big.Int
	Deadline      *big.Int
	CreatedAt     *big.Int
	IsActive      bool
	Streak        *big.Int
}

type SavingsContract struct {
	client  *Client
	address common.Address
	bound   *bind.BoundContract
}

func NewSavingsContract(client *Client, address common.Address) (*SavingsContract, error) {
	bound, err := bindContract(client, address, savingsABI)
	if err != nil {
		return nil, err
	}
	return &SavingsContract{client: client, address: address, bound: bound}, nil
}

func (s *SavingsContract) Address() common.Address {
	return s.address
}

func (s *SavingsContract) UserGoals(ctx context.Context, user common.Address) ([]Goal, error) {
	var out []interface{}
	err := s.bound.Call(s.client.callOpts(ctx), &out, "getUserGoals", user)
	if err != nil {
		return nil, fmt.Errorf("getUserGoals: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}

	goals := *abi.ConvertType(out[0], new([]Goal)).(*[]Goal)
	return goals, nil
}

func (s *SavingsContract) TotalSavings(ctx context.Context, user common.Address) (*big.Int, error) {
	return s.callUint(ctx, "getTotalSavings", user)
}

func (s *SavingsContract) UserStreak(ctx context.Context, user common.Address) (*big.Int, error) {
	return s.callUint(ctx, "getUserStreak", user)
}

func (s *SavingsContract) CreateSavingsGoal(ctx context.Context, name string, target, deadline *big.Int) (common.Hash, error) {
	return transact(ctx, s.client, s.bound, "createSavingsGoal", name, target, deadline)
}

func (s *SavingsContract) SaveToGoal(ctx context.Context, goalID, amount *big.Int) (common.Hash, error) {
	return transact(ctx, s.client, s.bound, "saveToGoal", goalID, amount)
}

func (s *SavingsContract) Withdraw(ctx context.Context, goalID, amount *big.Int) (common.Hash, error) {
	return transact(ctx, s.client, s.bound, "withdraw", goalID, amount)
}

func (s *SavingsContract) DeleteGoal(ctx context.Context, goalID *big.Int) (common.Hash, error) {
	return transact(ctx, s.client, s.bound, "deleteGoal", goalID)
}

func (s *SavingsContract) callUint(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	return callUint(ctx, s.client, s.bound, method, args...)
}

func bindContract(client *Client, address common.Address, abiJSON string) (*bind.BoundContract, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	return bind.NewBoundContract(address, parsed, client.eth, client.eth, client.eth), nil
}

func callUint(ctx context.Context, client *Client, bound *bind.BoundContract, method string, args ...interface{}) (*big.Int, error) {
	var out []interface{}
	err := bound.Call(client.callOpts(ctx), &out, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if len(out) == 0 {
		return new(big.Int), nil
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func transact(ctx context.Context, client *Client, bound *bind.BoundContract, method string, args ...interface{}) (common.Hash, error) {
	opts, err := client.transactOpts(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := bound.Transact(opts, method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s: %w", method, err)
	}
	return tx.Hash(), nil
}
