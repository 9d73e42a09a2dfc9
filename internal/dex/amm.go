package dex

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"weightedQuote/internal/model"
	"weightedQuote/internal/weighted"
)

// BalansolAmm quotes swaps against one Balansol pool. The pool snapshot is
// replaced wholesale on Update, so Quote may run concurrently with refreshes.
type BalansolAmm struct {
	address           solana.PublicKey
	reserveTokenMints []solana.PublicKey
	decoder           AccountDecoder
	logger            *zap.Logger
	state             atomic.Pointer[model.PoolState]
}

// NewBalansolAmm reads the reserve mints from the pool account. The snapshot
// stays empty until the first Update.
func NewBalansolAmm(address solana.PublicKey, data []byte, logger *zap.Logger) (*BalansolAmm, error) {
	amm, _, err := newBalansolAmm(address, data, logger)
	return amm, err
}

// LoadBalansolAmm is NewBalansolAmm that also publishes the decoded account
// as the first snapshot, so the pool quotes without a separate Update.
func LoadBalansolAmm(address solana.PublicKey, data []byte, logger *zap.Logger) (*BalansolAmm, error) {
	amm, state, err := newBalansolAmm(address, data, logger)
	if err != nil {
		return nil, err
	}
	amm.publish(state)
	return amm, nil
}

func newBalansolAmm(address solana.PublicKey, data []byte, logger *zap.Logger) (*BalansolAmm, *model.PoolState, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	decoder := NewBalansolDecoder()
	state, err := decoder.Decode(address, data)
	if err != nil {
		return nil, nil, err
	}
	return &BalansolAmm{
		address:           address,
		reserveTokenMints: state.Mints(),
		decoder:           decoder,
		logger:            logger,
	}, state, nil
}

func (a *BalansolAmm) Label() string { return BalansolLabel }

func (a *BalansolAmm) ShouldPrefetch() bool { return false }

func (a *BalansolAmm) Address() solana.PublicKey { return a.address }

// ReserveTokenMints returns the mints the pool trades.
func (a *BalansolAmm) ReserveTokenMints() []solana.PublicKey {
	return append([]solana.PublicKey(nil), a.reserveTokenMints...)
}

// AccountsForUpdate lists the accounts Update needs.
func (a *BalansolAmm) AccountsForUpdate() []solana.PublicKey {
	return []solana.PublicKey{a.address}
}

// Update decodes the refreshed pool account and publishes a new snapshot.
func (a *BalansolAmm) Update(accounts map[string][]byte) error {
	infos, err := MapAddressToAccountInfos(accounts, a.AccountsForUpdate())
	if err != nil {
		return err
	}
	state, err := a.decoder.Decode(a.address, infos[0])
	if err != nil {
		return err
	}
	a.publish(state)
	return nil
}

func (a *BalansolAmm) publish(state *model.PoolState) {
	a.state.Store(state)
	a.logger.Debug("pool snapshot updated",
		zap.String("pool", a.address.String()),
		zap.String("status", state.Status().String()),
		zap.Int("mints", state.Len()),
	)
}

// Snapshot returns the current pool state, or nil before the first Update.
func (a *BalansolAmm) Snapshot() *model.PoolState {
	return a.state.Load()
}

// Quote prices selling req.Amount of the source mint. It returns nil, nil
// when no snapshot has been loaded yet.
func (a *BalansolAmm) Quote(req model.QuoteRequest) (*model.QuoteResult, error) {
	state := a.state.Load()
	if state == nil {
		return nil, nil
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, req.Amount)
	}
	if req.SourceMint.Equals(req.DestinationMint) {
		return nil, fmt.Errorf("%w: %s", ErrSameAsset, req.SourceMint)
	}
	bidIndex, ok := state.IndexOf(req.SourceMint)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, req.SourceMint)
	}
	askIndex, ok := state.IndexOf(req.DestinationMint)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, req.DestinationMint)
	}

	weights := state.Weights()
	weightIn, err := weighted.NormalizedWeight(weights, state.Weight(bidIndex))
	if err != nil {
		return nil, err
	}
	weightOut, err := weighted.NormalizedWeight(weights, state.Weight(askIndex))
	if err != nil {
		return nil, err
	}

	swapFee := state.SwapFee()
	pair := weighted.PairData{
		BalanceIn:  state.Reserve(bidIndex),
		BalanceOut: state.Reserve(askIndex),
		WeightIn:   weightIn,
		WeightOut:  weightOut,
		SwapFee:    swapFee,
	}
	if err := pair.Validate(); err != nil {
		return nil, err
	}
	amountOut, err := weighted.OutGivenIn(req.Amount, pair.BalanceOut, pair.BalanceIn, weightOut, weightIn, swapFee)
	if err != nil {
		return nil, err
	}
	priceImpact, err := weighted.PriceImpact(req.Amount, pair)
	if err != nil {
		return nil, err
	}
	fee, err := weighted.FeeRate(swapFee)
	if err != nil {
		return nil, err
	}

	return &model.QuoteResult{
		NotEnoughLiquidity: false,
		InAmount:           req.Amount,
		OutAmount:          amountOut,
		FeeAmount:          amountOut / (1 - fee) * fee,
		FeeMint:            req.DestinationMint.String(),
		FeePct:             0,
		PriceImpactPct:     priceImpact,
	}, nil
}
