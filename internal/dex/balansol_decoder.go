package dex

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"weightedQuote/internal/fixedpoint"
	"weightedQuote/internal/model"
)

// BalansolDecoder decodes Balansol pool accounts.
type BalansolDecoder struct{}

// NewBalansolDecoder builds a Balansol pool decoder.
func NewBalansolDecoder() *BalansolDecoder {
	return &BalansolDecoder{}
}

// CanDecode checks the Anchor account discriminator.
func (d *BalansolDecoder) CanDecode(data []byte) bool {
	return len(data) >= discriminatorSize && bytes.Equal(data[:discriminatorSize], PoolDiscriminator[:])
}

// Decode converts raw account bytes into a PoolState.
func (d *BalansolDecoder) Decode(address solana.PublicKey, data []byte) (*model.PoolState, error) {
	layout, err := decodePoolLayout(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidAccountData, address, err)
	}

	state, err := model.NewPoolState(model.PoolStateParams{
		Address:    address,
		Authority:  layout.Authority,
		MintLpt:    layout.MintLpt,
		TaxMan:     layout.TaxMan,
		Status:     model.PoolStatus(layout.State),
		Mints:      layout.Mints,
		Treasuries: layout.Treasuries,
		Reserves:   toScaled(layout.Reserves),
		Weights:    toScaled(layout.Weights),
		Fee:        fixedpoint.FromUint64(layout.Fee),
		TaxFee:     fixedpoint.FromUint64(layout.TaxFee),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidAccountData, address, err)
	}
	return state, nil
}

func toScaled(values []uint64) []fixedpoint.ScaledAmount {
	out := make([]fixedpoint.ScaledAmount, 0, len(values))
	for _, v := range values {
		out = append(out, fixedpoint.FromUint64(v))
	}
	return out
}
