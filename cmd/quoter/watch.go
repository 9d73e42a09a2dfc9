package main

import (
	"context"
	"errors"
	"fmt"
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
	"weightedQuote/internal/storage/postgres"
	"weightedQuote/internal/watcher"
)

func runWatch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWatch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	pools, err := watcher.ParsePublicKeys(cfg.Pools)
	if err != nil {
		return err
	}
	if len(pools) == 0 {
		return fmt.Errorf("pool list is required")
	}

	probe, err := parseProbe(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(cfg.RPCURL, cfg.Commitment)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	headSlot, err := chainClient.LatestSlot(ctx)
	if err != nil {
		return fmt.Errorf("get latest slot: %w", err)
	}

	retry := watcher.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBackoff,
		MaxDelay:   cfg.MaxBackoff,
	}

	registry, slot, err := watcher.LoadPools(ctx, chainClient, pools, retry, logger)
	if err != nil {
		return err
	}

	var opts []watcher.Option
	if cfg.Out != "" {
		opts = append(opts, watcher.WithAccountSink(storage.NewJsonlStorage(cfg.Out)))
	}

	switch {
	case cfg.PGDSN != "":
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		opts = append(opts, watcher.WithSnapshotSink(store), watcher.WithSlotStore(store))
	default:
		if cfg.SnapshotsOut != "" {
			opts = append(opts, watcher.WithSnapshotSink(storage.NewJsonlStorage(cfg.SnapshotsOut)))
		}
		opts = append(opts, watcher.WithSlotStore(watcher.NewCheckpointStore(cfg.Checkpoint, cfg.CheckpointEnabled)))
	}

	runner := watcher.NewRunner(watcher.RunConfig{
		Name:      cfg.Name,
		Interval:  cfg.Interval,
		BatchSize: cfg.BatchSize,
		Retry:     retry,
		Probe:     probe,
	}, chainClient, registry, logger, opts...)

	logger.Info("watch start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("commitment", cfg.Commitment),
		zap.Int("pools", len(pools)),
		zap.Uint64("head_slot", headSlot),
		zap.Uint64("bootstrap_slot", slot),
		zap.Duration("interval", cfg.Interval),
		zap.String("out", cfg.Out),
		zap.Bool("postgres", cfg.PGDSN != ""),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	err = runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("watch stopped")
		return nil
	}
	return err
}

func parseProbe(cfg config.WatchConfig) (*model.QuoteRequest, error) {
	if cfg.ProbeFrom == "" && cfg.ProbeTo == "" {
		return nil, nil
	}
	if cfg.ProbeFrom == "" || cfg.ProbeTo == "" {
		return nil, fmt.Errorf("probe-from and probe-to must be set together")
	}
	from, err := solana.PublicKeyFromBase58(cfg.ProbeFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid probe-from: %w", err)
	}
	to, err := solana.PublicKeyFromBase58(cfg.ProbeTo)
	if err != nil {
		return nil, fmt.Errorf("invalid probe-to: %w", err)
	}
	if math.IsNaN(cfg.ProbeAmount) || math.IsInf(cfg.ProbeAmount, 0) || cfg.ProbeAmount <= 0 {
		return nil, fmt.Errorf("invalid probe-amount: %w: %v", dex.ErrInvalidAmount, cfg.ProbeAmount)
	}
	return &model.QuoteRequest{SourceMint: from, DestinationMint: to, Amount: cfg.ProbeAmount}, nil
}
