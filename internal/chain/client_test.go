package chain

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/time/rate"
)

type fakeReceipts struct {
	calls   int
	minedAt int
	status  uint64
	err     error
}

func (f *fakeReceipts) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.calls < f.minedAt {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{Status: f.status, TxHash: hash, BlockNumber: big.NewInt(7)}, nil
}

func testClient(r receiptReader) *Client {
	return &Client{receipts: r, pollEvery: rate.Inf}
}

func TestWaitConfirmedPollsUntilMined(t *testing.T) {
	receipts := &fakeReceipts{minedAt: 3, status: types.ReceiptStatusSuccessful}
	c := testClient(receipts)

	err := c.WaitConfirmed(context.Background(), common.HexToHash("0x01"))
	if err != nil {
		t.Fatalf("WaitConfirmed: %v", err)
	}
	if receipts.calls != 3 {
		t.Errorf("receipt polled %d times, want 3", receipts.calls)
	}
}

func TestWaitConfirmedReverted(t *testing.T) {
	c := testClient(&fakeReceipts{minedAt: 1, status: types.ReceiptStatusFailed})

	err := c.WaitConfirmed(context.Background(), common.HexToHash("0x02"))
	if !errors.Is(err, ErrReverted) {
		t.Errorf("error = %v, want ErrReverted", err)
	}
}

func TestWaitConfirmedTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	c := testClient(&fakeReceipts{err: boom})

	err := c.WaitConfirmed(context.Background(), common.HexToHash("0x03"))
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped transport error", err)
	}
}

func TestWaitConfirmedHonoursContext(t *testing.T) {
	c := &Client{
		receipts:  &fakeReceipts{minedAt: 1 << 30},
		pollEvery: rate.Every(10 * time.Millisecond),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.WaitConfirmed(ctx, common.HexToHash("0x04"))
	if err == nil {
		t.Fatal("expected error once the context expires")
	}
}

// perHashReceipts mines each hash on its second poll and is safe for concurrent use.
type perHashReceipts struct {
	mu    sync.Mutex
	calls map[common.Hash]int
}

func (f *perHashReceipts) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[hash]++
	if f.calls[hash] < 2 {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash, BlockNumber: big.NewInt(7)}, nil
}

func TestWaitConfirmedConcurrentWaitsPaceIndependently(t *testing.T) {
	c := &Client{
		receipts:  &perHashReceipts{calls: map[common.Hash]int{}},
		pollEvery: rate.Every(40 * time.Millisecond),
	}
	// Four waits need two polls each. Sharing one pacer would take about 280ms.
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.WaitConfirmed(ctx, common.BigToHash(big.NewInt(int64(i+1))))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("wait %d: %v", i, err)
		}
	}
}

func TestWaitConfirmedZeroClientUsesDefaultPace(t *testing.T) {
	c := &Client{receipts: &fakeReceipts{minedAt: 1, status: types.ReceiptStatusSuccessful}}
	if err := c.WaitConfirmed(context.Background(), common.HexToHash("0x05")); err != nil {
		t.Fatalf("WaitConfirmed: %v", err)
	}
}

func TestNetworkName(t *testing.T) {
	tests := []struct {
		id   int64
		want string
	}{
		{ChainIDCelo, "celo"},
		{ChainIDAlfajores, "alfajores"},
		{1, "unknown"},
	}
	for _, tt := range tests {
		if got := NetworkName(tt.id); got != tt.want {
			t.Errorf("NetworkName(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestTransactWithoutSigner(t *testing.T) {
	c := testClient(nil)
	if _, err := c.transactOpts(context.Background()); !errors.Is(err, ErrNoSigner) {
		t.Errorf("transactOpts error = %v, want ErrNoSigner", err)
	}
}

func TestUserGoalsDecoding(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(savingsABI))
	if err != nil {
		t.Fatalf("parse abi: %v", err)
	}

	method := parsed.Methods["getUserGoals"]
	want := []Goal{{
		Id:            big.NewInt(1),
		Name:          "Trip",
		TargetAmount:  big.NewInt(100),
		CurrentAmount: big.NewInt(40),
		Deadline:      big.NewInt(1_900_000_000),
		CreatedAt:     big.NewInt(1_700_000_000),
		IsActive:      true,
		Streak:        big.NewInt(3),
	}}

	packed, err := method.Outputs.Pack(want)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	out, err := method.Outputs.Unpack(packed)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}

	got := *abi.ConvertType(out[0], new([]Goal)).(*[]Goal)
	if len(got) != 1 || got[0].Name != "Trip" || got[0].CurrentAmount.Cmp(big.NewInt(40)) != 0 || !got[0].IsActive {
		t.Errorf("decoded %+v", got)
	}

	if _, ok := parsed.Methods["approve"]; ok {
		t.Error("token method leaked into savings abi")
	}
	if _, err := abi.JSON(strings.NewReader(tokenABI)); err != nil {
		t.Errorf("token abi: %v", err)
	}
}
