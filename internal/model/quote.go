package model

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// QuoteRequest asks for the output of selling Amount (human scale) of
// SourceMint for DestinationMint.
type QuoteRequest struct {
	SourceMint      solana.PublicKey
	DestinationMint solana.PublicKey
	Amount          float64
}

// QuoteResult is the single-hop quote handed to the router.
// FeePct and NotEnoughLiquidity are placeholders and always zero.
type QuoteResult struct {
	NotEnoughLiquidity bool    `json:"notEnoughLiquidity"`
	InAmount           float64 `json:"inAmount"`
	OutAmount          float64 `json:"outAmount"`
	FeeAmount          float64 `json:"feeAmount"`
	FeeMint            string  `json:"feeMint"`
	FeePct             float64 `json:"feePct"`
	PriceImpactPct     float64 `json:"priceImpactPct"`
}

// QuoteRecord is the printable form of a quote, with amounts as decimal strings.
type QuoteRecord struct {
	Pool               string `json:"pool"`
	Label              string `json:"label"`
	SourceMint         string `json:"source_mint"`
	DestinationMint    string `json:"destination_mint"`
	InAmount           string `json:"in_amount"`
	OutAmount          string `json:"out_amount"`
	FeeAmount          string `json:"fee_amount"`
	FeeMint            string `json:"fee_mint"`
	FeePct             string `json:"fee_pct"`
	PriceImpactPct     string `json:"price_impact_pct"`
	NotEnoughLiquidity bool   `json:"not_enough_liquidity"`
}

// NewQuoteRecord renders a quote for output.
func NewQuoteRecord(pool solana.PublicKey, label string, req QuoteRequest, result QuoteResult) QuoteRecord {
	return QuoteRecord{
		Pool:               pool.String(),
		Label:              label,
		SourceMint:         req.SourceMint.String(),
		DestinationMint:    req.DestinationMint.String(),
		InAmount:           decimal.NewFromFloat(result.InAmount).String(),
		OutAmount:          decimal.NewFromFloat(result.OutAmount).String(),
		FeeAmount:          decimal.NewFromFloat(result.FeeAmount).String(),
		FeeMint:            result.FeeMint,
		FeePct:             decimal.NewFromFloat(result.FeePct).String(),
		PriceImpactPct:     decimal.NewFromFloat(result.PriceImpactPct).String(),
		NotEnoughLiquidity: result.NotEnoughLiquidity,
	}
}
