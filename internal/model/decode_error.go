package model

// DecodeError records a decode failure for an account record.
type DecodeError struct {
	Address string `json:"address"`
	Slot    uint64 `json:"slot"`
	Error   string `json:"error"`
}
