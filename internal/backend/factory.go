package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/celosave/savings/internal/chain"
	"github.com/celosave/savings/internal/config"
	"github.com/celosave/savings/internal/repository"
	"github.com/ethereum/go-ethereum/common"
)

// NewBackend binds exactly one system of record for the life of the process:
// the ledger when a non-zero contract address is configured, the relational store otherwise.
// The returned func releases backend connections.
func NewBackend(ctx context.Context, cfg *config.Config, repo repository.SavingsGoalRepository) (Backend, func(), error) {
	if !cfg.LedgerMode() {
		slog.Info("initializing savings backend", "mode", "relational")
		return NewRelational(repo), func() {}, nil
	}

	slog.Info("initializing savings backend", "mode", "ledger", "contract", cfg.LedgerContractAddress, "chain_id", cfg.LedgerChainID)

	if !common.IsHexAddress(cfg.LedgerContractAddress) {
		return nil, nil, fmt.Errorf("LEDGER_CONTRACT_ADDRESS is not a hex address: %q", cfg.LedgerContractAddress)
	}
	if !common.IsHexAddress(cfg.LedgerTokenAddress) {
		return nil, nil, fmt.Errorf("LEDGER_TOKEN_ADDRESS is not a hex address: %q", cfg.LedgerTokenAddress)
	}
	if cfg.LedgerRPCURL == "" {
		return nil, nil, fmt.Errorf("LEDGER_RPC_URL is required when LEDGER_CONTRACT_ADDRESS is set")
	}

	client, err := chain.Dial(ctx, chain.Options{
		RPCURL:       cfg.LedgerRPCURL,
		ChainID:      cfg.LedgerChainID,
		PrivateKey:   cfg.LedgerPrivateKey,
		PollInterval: cfg.LedgerPollInterval,
	})
	if err != nil {
		return nil, nil, err
	}

	contract, err := chain.NewSavingsContract(client, common.HexToAddress(cfg.LedgerContractAddress))
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	token, err := chain.NewToken(client, common.HexToAddress(cfg.LedgerTokenAddress))
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	if client.From() == (common.Address{}) {
		slog.Warn("ledger backend is read-only, LEDGER_PRIVATE_KEY is not set")
	}

	ledger := NewLedger(contract, token, client, client.From(), cfg.LedgerConfirmTimeout)
	return ledger, client.Close, nil
}
