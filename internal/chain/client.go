// Package chain talks to the savings contract and its value token over JSON-RPC.
package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

const (
	ChainIDAlfajores int64 = 44787
	ChainIDCelo      int64 = 42220

	defaultPollInterval = 2 * time.Second
)

var (
	ErrNoSigner      = errors.New("no signing key configured")
	ErrReverted      = errors.New("transaction reverted")
	ErrChainMismatch = errors.New("rpc endpoint serves a different chain")
)

type Options struct {
	RPCURL       string
	ChainID      int64
	PrivateKey   string // hex, optional; without it the client is read-only
	PollInterval time.Duration
}

type receiptReader interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// Client holds the RPC connection, the signer and the receipt polling pace.
type Client struct {
	eth       *ethclient.Client
	receipts  receiptReader
	chainID   *big.Int
	key       *ecdsa.PrivateKey
	from      common.Address
	pollEvery rate.Limit
}

func Dial(ctx context.Context, opts Options) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc: %w", err)
	}

	served, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}
	if served.Int64() != opts.ChainID {
		eth.Close()
		return nil, fmt.Errorf("%w: want %d, got %s", ErrChainMismatch, opts.ChainID, served)
	}

	c := &Client{
		eth:       eth,
		receipts:  eth,
		chainID:   served,
		pollEvery: pollRate(opts.PollInterval),
	}

	if opts.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.PrivateKey, "0x"))
		if err != nil {
			eth.Close()
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		c.key = key
		c.from = crypto.PubkeyToAddress(key.PublicKey)
	}

	slog.Info("ledger rpc connected", "chain_id", served, "network", NetworkName(served.Int64()), "signer", c.from.Hex())
	return c, nil
}

// NetworkName names the known Celo chain ids.
func NetworkName(chainID int64) string {
	switch chainID {
	case ChainIDCelo:
		return "celo"
	case ChainIDAlfajores:
		return "alfajores"
	default:
		return "unknown"
	}
}

func pollRate(interval time.Duration) rate.Limit {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return rate.Every(interval)
}

// From is the signer address, or the zero address for a read-only client.
func (c *Client) From() common.Address {
	return c.from
}

func (c *Client) Close() {
	if c.eth != nil {
		c.eth.Close()
	}
}

func (c *Client) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx, From: c.from}
}

func (c *Client) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if c.key == nil {
		return nil, ErrNoSigner
	}
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

// WaitConfirmed polls for the receipt of hash until it is mined or ctx ends.
// There is no built-in deadline; callers bound the wait through ctx.
// Each call paces its own polls, so concurrent waits do not slow each other.
func (c *Client) WaitConfirmed(ctx context.Context, hash common.Hash) error {
	every := c.pollEvery
	if every <= 0 {
		every = pollRate(0)
	}
	poll := rate.NewLimiter(every, 1)

	for {
		err := poll.Wait(ctx)
		if err != nil {
			return err
		}

		receipt, err := c.receipts.TransactionReceipt(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to fetch receipt %s: %w", hash.Hex(), err)
		}

		if receipt.Status != types.ReceiptStatusSuccessful {
			return fmt.Errorf("%w: %s in block %s", ErrReverted, hash.Hex(), receipt.BlockNumber)
		}

		slog.Debug("transaction confirmed", "tx", hash.Hex(), "block", receipt.BlockNumber)
		return nil
	}
}
