package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"weightedQuote/internal/chain"
	"weightedQuote/internal/dex"
	"weightedQuote/internal/model"
	"weightedQuote/internal/storage"
)

// AccountFetcher loads raw accounts and the slot they were read at.
type AccountFetcher interface {
	GetAccounts(ctx context.Context, keys []solana.PublicKey) (map[string]chain.AccountInfo, uint64, error)
}

// RunConfig holds runtime settings for the watcher.
type RunConfig struct {
	Name      string
	Interval  time.Duration
	BatchSize int
	Retry     RetryPolicy
	// Probe, when set, is quoted against every pool holding its source mint
	// after each refresh.
	Probe *model.QuoteRequest
}

// Runner keeps registered pools in sync with the chain.
type Runner struct {
	cfg       RunConfig
	fetcher   AccountFetcher
	registry  *dex.Registry
	accounts  storage.AccountSink
	snapshots storage.SnapshotSink
	slots     SlotStore
	logger    *zap.Logger
	now       func() time.Time

	// lastSlot is the newest slot refreshed by this process. resumedSlot is
	// the checkpoint found at start and does not gate refreshes.
	lastSlot    uint64
	resumedSlot uint64
}

// Option configures optional Runner dependencies.
type Option func(*Runner)

// WithAccountSink records every fetched pool account.
func WithAccountSink(sink storage.AccountSink) Option {
	return func(r *Runner) { r.accounts = sink }
}

// WithSnapshotSink records every decoded pool snapshot.
func WithSnapshotSink(sink storage.SnapshotSink) Option {
	return func(r *Runner) { r.snapshots = sink }
}

// WithSlotStore persists the last refreshed slot.
func WithSlotStore(store SlotStore) Option {
	return func(r *Runner) { r.slots = store }
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, fetcher AccountFetcher, registry *dex.Registry, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Name == "" {
		cfg.Name = "watch"
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > chain.MaxAccountsPerRequest {
		cfg.BatchSize = chain.MaxAccountsPerRequest
	}
	r := &Runner{
		cfg:      cfg,
		fetcher:  fetcher,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run refreshes pools every Interval until ctx is done. A zero Interval
// refreshes once.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.resume(ctx); err != nil {
		return err
	}

	if _, err := r.RunOnce(ctx); err != nil {
		return err
	}
	if r.cfg.Interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if _, err := r.RunOnce(ctx); err != nil {
			return err
		}
	}
}

func (r *Runner) resume(ctx context.Context) error {
	if r.slots == nil {
		return nil
	}
	slot, ok, err := r.slots.LoadState(ctx, r.cfg.Name)
	if err != nil {
		return fmt.Errorf("load slot state: %w", err)
	}
	if ok {
		r.resumedSlot = slot
		r.logger.Info("resume from checkpoint", zap.String("name", r.cfg.Name), zap.Uint64("last_slot", slot))
	}
	return nil
}

// RunOnce fetches every watched account, publishes fresh snapshots, and
// returns the slot the refresh is consistent with. Reads older than the last
// refresh are dropped.
func (r *Runner) RunOnce(ctx context.Context) (uint64, error) {
	if r.fetcher == nil {
		return 0, fmt.Errorf("account fetcher is nil")
	}
	if r.registry == nil {
		return 0, fmt.Errorf("pool registry is nil")
	}

	keys := r.registry.AccountsForUpdate()
	if len(keys) == 0 {
		return 0, fmt.Errorf("at least one pool is required")
	}
	batches, err := SplitBatches(keys, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	infos := make(map[string]chain.AccountInfo, len(keys))
	var slot uint64
	for i, batch := range batches {
		got, batchSlot, err := r.fetchWithRetry(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("fetch accounts: %w", err)
		}
		for key, info := range got {
			infos[key] = info
		}
		// Each batch is at least as fresh as its slot; keep the oldest.
		if i == 0 || batchSlot < slot {
			slot = batchSlot
		}
	}

	if slot < r.lastSlot {
		r.logger.Warn("stale account read, skipping", zap.Uint64("slot", slot), zap.Uint64("last_slot", r.lastSlot))
		return r.lastSlot, nil
	}
	if r.lastSlot == 0 && slot < r.resumedSlot {
		r.logger.Warn("checkpoint ahead of rpc, continuing from rpc slot",
			zap.String("name", r.cfg.Name),
			zap.Uint64("slot", slot),
			zap.Uint64("checkpoint_slot", r.resumedSlot),
		)
	}

	fetchedAt := r.now().UTC()
	data := make(map[string][]byte, len(infos))
	records := make([]model.AccountRecord, 0, len(infos))
	for _, key := range keys {
		info, ok := infos[key.String()]
		if !ok {
			continue
		}
		data[key.String()] = info.Data
		records = append(records, model.NewAccountRecord(key.String(), info.Owner.String(), slot, info.Lamports, info.Data, fetchedAt))
	}

	pools := r.registry.Pools()
	snapshots := make([]model.PoolSnapshot, 0, len(pools))
	failed := 0
	for _, amm := range pools {
		if err := amm.Update(data); err != nil {
			failed++
			r.logger.Warn("pool update failed", zap.String("pool", amm.Address().String()), zap.Error(err))
			continue
		}
		snapshots = append(snapshots, model.NewPoolSnapshot(amm.Snapshot(), slot))
	}

	if r.accounts != nil {
		if err := r.accounts.PutAccountBatch(records); err != nil {
			return 0, fmt.Errorf("store accounts: %w", err)
		}
	}
	if r.snapshots != nil {
		if err := r.snapshots.PutSnapshots(ctx, snapshots); err != nil {
			return 0, fmt.Errorf("store snapshots: %w", err)
		}
	}

	r.probe()

	if r.slots != nil {
		if err := r.slots.SaveState(ctx, r.cfg.Name, slot); err != nil {
			return 0, fmt.Errorf("save slot state: %w", err)
		}
	}
	r.lastSlot = slot

	r.logger.Info("refresh complete",
		zap.Uint64("slot", slot),
		zap.Int("pools", len(pools)),
		zap.Int("updated", len(snapshots)),
		zap.Int("failed", failed),
	)
	return slot, nil
}

func (r *Runner) probe() {
	req := r.cfg.Probe
	if req == nil {
		return
	}
	for _, amm := range r.registry.ByMint(req.SourceMint) {
		result, err := amm.Quote(*req)
		if err != nil {
			r.logger.Debug("probe quote failed", zap.String("pool", amm.Address().String()), zap.Error(err))
			continue
		}
		if result == nil {
			continue
		}
		r.logger.Info("probe quote",
			zap.String("pool", amm.Address().String()),
			zap.String("source_mint", req.SourceMint.String()),
			zap.String("destination_mint", req.DestinationMint.String()),
			zap.Float64("in_amount", result.InAmount),
			zap.Float64("out_amount", result.OutAmount),
			zap.Float64("fee_amount", result.FeeAmount),
			zap.Float64("price_impact_pct", result.PriceImpactPct),
		)
	}
}

func (r *Runner) fetchWithRetry(ctx context.Context, keys []solana.PublicKey) (map[string]chain.AccountInfo, uint64, error) {
	var (
		infos map[string]chain.AccountInfo
		slot  uint64
	)
	err := withRetry(ctx, r.cfg.Retry, func(ctx context.Context) error {
		var err error
		infos, slot, err = r.fetcher.GetAccounts(ctx, keys)
		if err != nil {
			r.logger.Warn("get accounts failed", zap.Error(err), zap.Int("keys", len(keys)))
		}
		return err
	})
	return infos, slot, err
}
