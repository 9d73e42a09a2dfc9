package dex

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"weightedQuote/internal/model"
)

// AccountDecoder turns raw program account bytes into a pool snapshot.
type AccountDecoder interface {
	CanDecode(data []byte) bool
	Decode(address solana.PublicKey, data []byte) (*model.PoolState, error)
}

// MapAddressToAccountInfos picks the account bytes for each address, in order.
func MapAddressToAccountInfos(accounts map[string][]byte, addresses []solana.PublicKey) ([][]byte, error) {
	out := make([][]byte, 0, len(addresses))
	for _, address := range addresses {
		data, ok := accounts[address.String()]
		if !ok || data == nil {
			return nil, fmt.Errorf("%w: account info %s missing", ErrMissingAccountData, address)
		}
		out = append(out, data)
	}
	return out, nil
}
