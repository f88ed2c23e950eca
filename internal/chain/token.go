package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// DefaultTokenAddress is cUSD on Alfajores.
const DefaultTokenAddress = "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1"

// Token is the ERC-20 that funds deposits.
type Token struct {
	client  *Client
	address common.Address
	bound   *bind.BoundContract
}

func NewToken(client *Client, address common.Address) (*Token, error) {
	bound, err := bindContract(client, address, tokenABI)
	if err != nil {
		return nil, err
	}
	return &Token{client: client, address: address, bound: bound}, nil
}

func (t *Token) Approve(ctx context.Context, spender common.Address, amount *big.Int) (common.Hash, error) {
	return transact(ctx, t.client, t.bound, "approve", spender, amount)
}

func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return callUint(ctx, t.client, t.bound, "allowance", owner, spender)
}

func (t *Token) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return callUint(ctx, t.client, t.bound, "balanceOf", account)
}
