package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"weightedQuote/internal/chain"
	"weightedQuote/internal/config"
	"weightedQuote/internal/dex"
	"weightedQuote/internal/model"
	"weightedQuote/internal/storage"
	"weightedQuote/internal/watcher"
)

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pool, req, err := parseQuoteRequest(cfg)
	if err != nil {
		return err
	}

	var amm *dex.BalansolAmm
	if cfg.Accounts != "" {
		amm, err = ammFromAccounts(cfg.Accounts, pool, logger)
	} else {
		amm, err = ammFromRPC(cfg, pool, logger)
	}
	if err != nil {
		return err
	}

	return writeQuote(cmd.OutOrStdout(), amm, req)
}

func parseQuoteRequest(cfg config.QuoteConfig) (solana.PublicKey, model.QuoteRequest, error) {
	if cfg.Pool == "" || cfg.From == "" || cfg.To == "" {
		return solana.PublicKey{}, model.QuoteRequest{}, fmt.Errorf("pool, from and to are required")
	}
	if cfg.Accounts == "" && cfg.RPCURL == "" {
		return solana.PublicKey{}, model.QuoteRequest{}, fmt.Errorf("rpc url or accounts file is required")
	}
	if math.IsNaN(cfg.Amount) || math.IsInf(cfg.Amount, 0) || cfg.Amount <= 0 {
		return solana.PublicKey{}, model.QuoteRequest{}, fmt.Errorf("%w: %v", dex.ErrInvalidAmount, cfg.Amount)
	}

	keys := make([]solana.PublicKey, 0, 3)
	for _, input := range []string{cfg.Pool, cfg.From, cfg.To} {
		key, err := solana.PublicKeyFromBase58(input)
		if err != nil {
			return solana.PublicKey{}, model.QuoteRequest{}, fmt.Errorf("invalid public key %s: %w", input, err)
		}
		keys = append(keys, key)
	}
	return keys[0], model.QuoteRequest{SourceMint: keys[1], DestinationMint: keys[2], Amount: cfg.Amount}, nil
}

func ammFromAccounts(path string, pool solana.PublicKey, logger *zap.Logger) (*dex.BalansolAmm, error) {
	records, err := storage.ReadAccountRecords(path)
	if err != nil {
		return nil, err
	}
	record, ok := storage.LatestAccounts(records)[pool.String()]
	if !ok {
		return nil, fmt.Errorf("%w: pool %s not in %s", dex.ErrMissingAccountData, pool, path)
	}
	data, err := record.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dex.ErrInvalidAccountData, err)
	}

	amm, err := dex.NewBalansolAmm(pool, data, logger)
	if err != nil {
		return nil, err
	}
	if err := amm.Update(map[string][]byte{pool.String(): data}); err != nil {
		return nil, err
	}
	logger.Info("pool loaded from file", zap.String("pool", pool.String()), zap.Uint64("slot", record.Slot))
	return amm, nil
}

func ammFromRPC(cfg config.QuoteConfig, pool solana.PublicKey, logger *zap.Logger) (*dex.BalansolAmm, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(cfg.RPCURL, cfg.Commitment)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	registry, _, err := watcher.LoadPools(ctx, chainClient, []solana.PublicKey{pool}, watcher.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBackoff,
	}, logger)
	if err != nil {
		return nil, err
	}
	amm, _ := registry.Get(pool)
	return amm, nil
}

func writeQuote(w io.Writer, amm *dex.BalansolAmm, req model.QuoteRequest) error {
	result, err := amm.Quote(req)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("pool %s has no state loaded", amm.Address())
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(model.NewQuoteRecord(amm.Address(), amm.Label(), req, *result))
}
