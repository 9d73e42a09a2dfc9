package watcher

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"weightedQuote/internal/chain"
	"weightedQuote/internal/dex"
)

var balansolProgram = solana.MustPublicKeyFromBase58(dex.BalansolProgramID)

// LoadPools fetches each pool account, builds its AMM and publishes the first
// snapshot. It returns the registry and the slot the accounts were read at.
func LoadPools(ctx context.Context, fetcher AccountFetcher, pools []solana.PublicKey, retry RetryPolicy, logger *zap.Logger) (*dex.Registry, uint64, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(pools) == 0 {
		return nil, 0, fmt.Errorf("at least one pool is required")
	}

	batches, err := SplitBatches(pools, chain.MaxAccountsPerRequest)
	if err != nil {
		return nil, 0, err
	}

	registry := dex.NewRegistry()
	var slot uint64
	for i, batch := range batches {
		var (
			infos     map[string]chain.AccountInfo
			batchSlot uint64
		)
		err := withRetry(ctx, retry, func(ctx context.Context) error {
			var err error
			infos, batchSlot, err = fetcher.GetAccounts(ctx, batch)
			return err
		})
		if err != nil {
			return nil, 0, fmt.Errorf("fetch pool accounts: %w", err)
		}
		if i == 0 || batchSlot < slot {
			slot = batchSlot
		}

		for _, pool := range batch {
			info, ok := infos[pool.String()]
			if !ok {
				return nil, 0, fmt.Errorf("%w: pool %s", dex.ErrMissingAccountData, pool)
			}
			if !info.Owner.Equals(balansolProgram) {
				return nil, 0, fmt.Errorf("%w: pool %s owned by %s", dex.ErrInvalidAccountData, pool, info.Owner)
			}

			amm, err := dex.LoadBalansolAmm(pool, info.Data, logger)
			if err != nil {
				return nil, 0, err
			}
			registry.Add(amm)

			logger.Info("pool loaded",
				zap.String("pool", pool.String()),
				zap.Int("mints", len(amm.ReserveTokenMints())),
				zap.Uint64("slot", batchSlot),
			)
		}
	}
	return registry, slot, nil
}
