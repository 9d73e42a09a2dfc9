package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AccountRecord is the stored form of a raw account fetched from the chain.
// Data holds the account bytes as 0x-prefixed hex.
type AccountRecord struct {
	Address   string `json:"address"`
	Owner     string `json:"owner"`
	Slot      uint64 `json:"slot"`
	Lamports  uint64 `json:"lamports"`
	Data      string `json:"data"`
	FetchedAt string `json:"fetched_at"`
}

// NewAccountRecord encodes raw account bytes into an AccountRecord.
func NewAccountRecord(address, owner string, slot, lamports uint64, data []byte, fetchedAt time.Time) AccountRecord {
	return AccountRecord{
		Address:   address,
		Owner:     owner,
		Slot:      slot,
		Lamports:  lamports,
		Data:      hexutil.Encode(data),
		FetchedAt: fetchedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Bytes decodes the hex payload.
func (r AccountRecord) Bytes() ([]byte, error) {
	data, err := hexutil.Decode(r.Data)
	if err != nil {
		return nil, fmt.Errorf("account %s data: %w", r.Address, err)
	}
	return data, nil
}

// MarshalJSON ensures AccountRecord is encoded with stable field names.
func (r AccountRecord) MarshalJSON() ([]byte, error) {
	type Alias AccountRecord
	return json.Marshal(Alias(r))
}

// UnmarshalJSON decodes an AccountRecord from JSON.
func (r *AccountRecord) UnmarshalJSON(data []byte) error {
	type Alias AccountRecord
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = AccountRecord(a)
	return nil
}
