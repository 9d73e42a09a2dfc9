package dex

import (
	"errors"

	"weightedQuote/internal/weighted"
)

var (
	// ErrMissingAccountData reports a watched address absent from a refresh.
	ErrMissingAccountData = errors.New("missing account data")
	// ErrInvalidAccountData reports account bytes that do not decode into a pool.
	ErrInvalidAccountData = errors.New("invalid account data")
	// ErrAssetNotFound reports a quote for a mint the pool does not hold.
	ErrAssetNotFound = errors.New("asset not found in pool")
	// ErrSameAsset reports a quote with identical source and destination mints.
	ErrSameAsset = errors.New("source and destination mint are the same")
	// ErrInvalidAmount reports a non-positive or non-finite quote amount.
	ErrInvalidAmount = weighted.ErrInvalidAmount
)
