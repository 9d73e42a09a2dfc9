package weighted

import "errors"

var (
	// ErrMalformedPoolState reports pool inputs that would make the invariant
	// formulas non-finite: zero weight sum, non-positive weights or reserves,
	// or a fee rate outside [0, 1).
	ErrMalformedPoolState = errors.New("malformed pool state")
	// ErrInsufficientLiquidity reports an empty reserve on either side of a pair.
	// It is always returned joined with ErrMalformedPoolState.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrPriceOutOfRange reports a post-trade spot price beyond float64 range
	// on an otherwise valid pair.
	ErrPriceOutOfRange = errors.New("spot price out of range")
	// ErrInvalidAmount reports a negative or non-finite trade amount.
	ErrInvalidAmount = errors.New("invalid trade amount")
)
