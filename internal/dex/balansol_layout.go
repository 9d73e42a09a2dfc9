package dex

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	// BalansolProgramID owns every Balansol pool account.
	BalansolProgramID = "D3BBjqUdCYuP18fNvvMbPAZ8DpcRi4io2EsYHQawJDag"
	// BalansolLabel names the pool kind for the router.
	BalansolLabel = "Balansol"

	discriminatorSize = 8
)

// MintAction is the per-mint trading mode stored alongside each reserve.
type MintAction uint8

const (
	MintActionActive MintAction = iota
	MintActionBidOnly
	MintActionAskOnly
	MintActionPaused
)

// PoolDiscriminator prefixes every Anchor "Pool" account.
var PoolDiscriminator = accountDiscriminator("Pool")

// PoolLayout is the Borsh body of a Balansol pool account.
type PoolLayout struct {
	Authority  solana.PublicKey
	Fee        uint64
	TaxFee     uint64
	State      uint8
	MintLpt    solana.PublicKey
	TaxMan     solana.PublicKey
	Mints      []solana.PublicKey
	Actions    []MintAction
	Treasuries []solana.PublicKey
	Reserves   []uint64
	Weights    []uint64
}

func accountDiscriminator(name string) [discriminatorSize]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var out [discriminatorSize]byte
	copy(out[:], sum[:discriminatorSize])
	return out
}

// EncodePool serializes layout with the pool discriminator, as the program stores it.
func EncodePool(layout PoolLayout) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(PoolDiscriminator[:])
	if err := bin.NewBorshEncoder(&buf).Encode(layout); err != nil {
		return nil, fmt.Errorf("encode pool: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePoolLayout(data []byte) (PoolLayout, error) {
	var layout PoolLayout
	if len(data) < discriminatorSize {
		return layout, fmt.Errorf("account too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[:discriminatorSize], PoolDiscriminator[:]) {
		return layout, fmt.Errorf("unexpected discriminator %x", data[:discriminatorSize])
	}
	if err := bin.NewBorshDecoder(data[discriminatorSize:]).Decode(&layout); err != nil {
		return layout, fmt.Errorf("borsh decode: %w", err)
	}
	return layout, nil
}
