package model

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"weightedQuote/internal/fixedpoint"
)

// ErrInvalidPoolState reports a decoded pool that breaks the parallel-sequence invariants.
var ErrInvalidPoolState = errors.New("invalid pool state")

// PoolStatus mirrors the on-chain pool lifecycle enum.
type PoolStatus uint8

const (
	PoolStatusUninitialized PoolStatus = iota
	PoolStatusInitialized
	PoolStatusFrozen
	PoolStatusDeleted
)

func (s PoolStatus) String() string {
	switch s {
	case PoolStatusUninitialized:
		return "uninitialized"
	case PoolStatusInitialized:
		return "initialized"
	case PoolStatusFrozen:
		return "frozen"
	case PoolStatusDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// PoolStateParams carries the decoded fields used to build a PoolState.
type PoolStateParams struct {
	Address    solana.PublicKey
	Authority  solana.PublicKey
	MintLpt    solana.PublicKey
	TaxMan     solana.PublicKey
	Status     PoolStatus
	Mints      []solana.PublicKey
	Treasuries []solana.PublicKey
	Reserves   []fixedpoint.ScaledAmount
	Weights    []fixedpoint.ScaledAmount
	Fee        fixedpoint.ScaledAmount
	TaxFee     fixedpoint.ScaledAmount
}

// PoolState is an immutable snapshot of a weighted pool. Mints, Reserves and
// Weights are parallel sequences indexed by asset position.
type PoolState struct {
	address    solana.PublicKey
	authority  solana.PublicKey
	mintLpt    solana.PublicKey
	taxMan     solana.PublicKey
	status     PoolStatus
	mints      []solana.PublicKey
	treasuries []solana.PublicKey
	reserves   []fixedpoint.ScaledAmount
	weights    []fixedpoint.ScaledAmount
	fee        fixedpoint.ScaledAmount
	taxFee     fixedpoint.ScaledAmount
	index      map[solana.PublicKey]int
}

// NewPoolState validates params and builds a snapshot with its asset index.
func NewPoolState(params PoolStateParams) (*PoolState, error) {
	n := len(params.Mints)
	if n < 2 {
		return nil, fmt.Errorf("%w: pool needs at least 2 mints, got %d", ErrInvalidPoolState, n)
	}
	if len(params.Reserves) != n || len(params.Weights) != n {
		return nil, fmt.Errorf("%w: %d mints, %d reserves, %d weights",
			ErrInvalidPoolState, n, len(params.Reserves), len(params.Weights))
	}
	if len(params.Treasuries) != 0 && len(params.Treasuries) != n {
		return nil, fmt.Errorf("%w: %d mints, %d treasuries", ErrInvalidPoolState, n, len(params.Treasuries))
	}
	if params.Fee.Sign() < 0 || params.TaxFee.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative fee", ErrInvalidPoolState)
	}

	index := make(map[solana.PublicKey]int, n)
	for i, mint := range params.Mints {
		if _, ok := index[mint]; ok {
			return nil, fmt.Errorf("%w: duplicate mint %s", ErrInvalidPoolState, mint)
		}
		index[mint] = i
		if params.Reserves[i].Sign() < 0 {
			return nil, fmt.Errorf("%w: negative reserve for %s", ErrInvalidPoolState, mint)
		}
		if params.Weights[i].Sign() < 0 {
			return nil, fmt.Errorf("%w: negative weight for %s", ErrInvalidPoolState, mint)
		}
	}

	return &PoolState{
		address:    params.Address,
		authority:  params.Authority,
		mintLpt:    params.MintLpt,
		taxMan:     params.TaxMan,
		status:     params.Status,
		mints:      append([]solana.PublicKey(nil), params.Mints...),
		treasuries: append([]solana.PublicKey(nil), params.Treasuries...),
		reserves:   append([]fixedpoint.ScaledAmount(nil), params.Reserves...),
		weights:    append([]fixedpoint.ScaledAmount(nil), params.Weights...),
		fee:        params.Fee,
		taxFee:     params.TaxFee,
		index:      index,
	}, nil
}

func (p *PoolState) Address() solana.PublicKey { return p.address }
func (p *PoolState) Authority() solana.PublicKey { return p.authority }
func (p *PoolState) MintLpt() solana.PublicKey { return p.mintLpt }
func (p *PoolState) TaxMan() solana.PublicKey { return p.taxMan }
func (p *PoolState) Status() PoolStatus { return p.status }
func (p *PoolState) Fee() fixedpoint.ScaledAmount { return p.fee }
func (p *PoolState) TaxFee() fixedpoint.ScaledAmount { return p.taxFee }

// Len returns the number of assets in the pool.
func (p *PoolState) Len() int { return len(p.mints) }

// Mints returns a copy of the ordered asset list.
func (p *PoolState) Mints() []solana.PublicKey {
	return append([]solana.PublicKey(nil), p.mints...)
}

// Treasuries returns a copy of the treasury accounts, parallel to Mints.
func (p *PoolState) Treasuries() []solana.PublicKey {
	return append([]solana.PublicKey(nil), p.treasuries...)
}

// Reserves returns a copy of the reserve list.
func (p *PoolState) Reserves() []fixedpoint.ScaledAmount {
	return append([]fixedpoint.ScaledAmount(nil), p.reserves...)
}

// Weights returns a copy of the weight list.
func (p *PoolState) Weights() []fixedpoint.ScaledAmount {
	return append([]fixedpoint.ScaledAmount(nil), p.weights...)
}

// Reserve returns the reserve at asset index i.
func (p *PoolState) Reserve(i int) fixedpoint.ScaledAmount { return p.reserves[i] }

// Weight returns the weight at asset index i.
func (p *PoolState) Weight(i int) fixedpoint.ScaledAmount { return p.weights[i] }

// IndexOf returns the position of mint in the asset list.
func (p *PoolState) IndexOf(mint solana.PublicKey) (int, bool) {
	i, ok := p.index[mint]
	return i, ok
}

// SwapFee is the effective fee: base fee plus tax fee.
func (p *PoolState) SwapFee() fixedpoint.ScaledAmount {
	return p.fee.Add(p.taxFee)
}
