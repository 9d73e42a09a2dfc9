package model

import (
	"github.com/gagliardetto/solana-go"

	"weightedQuote/internal/fixedpoint"
)

// PoolSnapshot is the storage form of a decoded pool at a slot.
type PoolSnapshot struct {
	Address    string                    `json:"address"`
	Slot       uint64                    `json:"slot"`
	Status     string                    `json:"status"`
	Authority  string                    `json:"authority"`
	MintLpt    string                    `json:"mint_lpt"`
	TaxMan     string                    `json:"tax_man"`
	Mints      []string                  `json:"mints"`
	Treasuries []string                  `json:"treasuries"`
	Reserves   []fixedpoint.ScaledAmount `json:"reserves"`
	Weights    []fixedpoint.ScaledAmount `json:"weights"`
	Fee        fixedpoint.ScaledAmount   `json:"fee"`
	TaxFee     fixedpoint.ScaledAmount   `json:"tax_fee"`
}

// NewPoolSnapshot renders state at slot.
func NewPoolSnapshot(state *PoolState, slot uint64) PoolSnapshot {
	return PoolSnapshot{
		Address:    state.Address().String(),
		Slot:       slot,
		Status:     state.Status().String(),
		Authority:  state.Authority().String(),
		MintLpt:    state.MintLpt().String(),
		TaxMan:     state.TaxMan().String(),
		Mints:      keysToStrings(state.Mints()),
		Treasuries: keysToStrings(state.Treasuries()),
		Reserves:   state.Reserves(),
		Weights:    state.Weights(),
		Fee:        state.Fee(),
		TaxFee:     state.TaxFee(),
	}
}

func keysToStrings(keys []solana.PublicKey) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, key.String())
	}
	return out
}
