// Package weighted implements the constant-weighted (Balancer style) invariant
// used to quote swaps against multi-asset weighted pools.
//
// Reserves and weights arrive as on-chain scaled integers carrying Decimals
// implied digits; fees are scaled by Precision. All evaluation happens in
// float64 after an exact conversion through the fixedpoint package.
package weighted

import (
	"fmt"
	"math"

	"weightedQuote/internal/fixedpoint"
)

const (
	// Decimals is the number of implied fractional digits of reserves and weights.
	Decimals = 9
	// Precision scales fee values into a rate.
	Precision = 1e9
)

// PairData is the directional view of a pool needed to price one hop.
type PairData struct {
	BalanceIn  fixedpoint.ScaledAmount
	BalanceOut fixedpoint.ScaledAmount
	WeightIn   float64
	WeightOut  float64
	SwapFee    fixedpoint.ScaledAmount
}

// Validate checks that the pair can be evaluated without producing NaN or Inf.
func (p PairData) Validate() error {
	_, err := p.numbers()
	return err
}

type pairNumbers struct {
	balanceIn  float64
	balanceOut float64
	weightIn   float64
	weightOut  float64
	fee        float64
}

func (p PairData) numbers() (pairNumbers, error) {
	bi, err := reserve(p.BalanceIn, "balance in")
	if err != nil {
		return pairNumbers{}, err
	}
	bo, err := reserve(p.BalanceOut, "balance out")
	if err != nil {
		return pairNumbers{}, err
	}
	if err := checkWeight(p.WeightIn, "weight in"); err != nil {
		return pairNumbers{}, err
	}
	if err := checkWeight(p.WeightOut, "weight out"); err != nil {
		return pairNumbers{}, err
	}
	fee, err := FeeRate(p.SwapFee)
	if err != nil {
		return pairNumbers{}, err
	}
	return pairNumbers{balanceIn: bi, balanceOut: bo, weightIn: p.WeightIn, weightOut: p.WeightOut, fee: fee}, nil
}

// FeeRate converts a scaled fee into a fraction in [0, 1).
func FeeRate(swapFee fixedpoint.ScaledAmount) (float64, error) {
	rate := fixedpoint.ToNumber(swapFee) / Precision
	if math.IsNaN(rate) || rate < 0 || rate >= 1 {
		return 0, fmt.Errorf("%w: fee rate %v outside [0, 1)", ErrMalformedPoolState, rate)
	}
	return rate, nil
}

// NormalizedWeight returns weightOfToken divided by the sum of weights, both
// taken at Decimals implied digits. The result is scale invariant.
func NormalizedWeight(weights []fixedpoint.ScaledAmount, weightOfToken fixedpoint.ScaledAmount) (float64, error) {
	var sum float64
	for i, w := range weights {
		if w.Sign() < 0 {
			return 0, fmt.Errorf("%w: weight %d is negative", ErrMalformedPoolState, i)
		}
		f, err := fixedpoint.ToFloat(w, Decimals)
		if err != nil {
			return 0, fmt.Errorf("%w: weight %d: %w", ErrMalformedPoolState, i, err)
		}
		sum += f
	}
	if sum == 0 || math.IsInf(sum, 0) {
		return 0, fmt.Errorf("%w: total weight is %v", ErrMalformedPoolState, sum)
	}
	if weightOfToken.Sign() < 0 {
		return 0, fmt.Errorf("%w: token weight is negative", ErrMalformedPoolState)
	}
	token, err := fixedpoint.ToFloat(weightOfToken, Decimals)
	if err != nil {
		return 0, fmt.Errorf("%w: token weight: %w", ErrMalformedPoolState, err)
	}
	return token / sum, nil
}

// OutGivenIn computes the output amount of a swap of amountIn (human scale):
//
//	amountOut = Bo * (1 - (Bi / (Bi + amountIn)) ^ (wi / wo)) * (1 - fee)
func OutGivenIn(
	amountIn float64,
	balanceOut fixedpoint.ScaledAmount,
	balanceIn fixedpoint.ScaledAmount,
	weightOut float64,
	weightIn float64,
	swapFee fixedpoint.ScaledAmount,
) (float64, error) {
	if err := checkAmount(amountIn); err != nil {
		return 0, err
	}
	n, err := PairData{
		BalanceIn:  balanceIn,
		BalanceOut: balanceOut,
		WeightIn:   weightIn,
		WeightOut:  weightOut,
		SwapFee:    swapFee,
	}.numbers()
	if err != nil {
		return 0, err
	}
	if amountIn == 0 {
		return 0, nil
	}

	ratioBeforeAfter := n.balanceIn / (n.balanceIn + amountIn)
	exponent := n.weightIn / n.weightOut
	out := n.balanceOut * (1 - math.Pow(ratioBeforeAfter, exponent)) * (1 - n.fee)
	return finite(out, "amount out")
}

// SpotPriceExactIn returns the marginal price of the output asset in units of
// the input asset after a trade of amount. amount 0 gives the current price.
// A valid pair whose post-trade price exceeds float64 range yields
// ErrPriceOutOfRange.
func SpotPriceExactIn(amount float64, pair PairData) (float64, error) {
	if err := checkAmount(amount); err != nil {
		return 0, err
	}
	n, err := pair.numbers()
	if err != nil {
		return 0, err
	}

	price := n.currentPrice() / n.growth(amount)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: spot price after %v is %v", ErrPriceOutOfRange, amount, price)
	}
	return price, nil
}

// PriceImpact returns 1 - current/after spot price for a trade of bidAmount,
// or 0 when the post-trade price is below the current one.
//
// current/after reduces to the growth term, which stays in [0, 1] for any
// valid pair, so a trade that pushes the price past float64 range gives 1.
func PriceImpact(bidAmount float64, pair PairData) (float64, error) {
	if err := checkAmount(bidAmount); err != nil {
		return 0, err
	}
	n, err := pair.numbers()
	if err != nil {
		return 0, err
	}

	ratio := n.growth(bidAmount)
	if ratio > 1 {
		return 0, nil
	}
	return 1 - ratio, nil
}

// currentPrice is the spot price before any trade.
func (n pairNumbers) currentPrice() float64 {
	return -(n.balanceIn * n.weightOut) / (n.balanceOut * (-1 + n.fee) * n.weightIn)
}

// growth is (Bi / (a + Bi - a*f)) ^ ((wi + wo) / wo), equal to 1 at a = 0.
func (n pairNumbers) growth(amount float64) float64 {
	bi, wi, wo, f := n.balanceIn, n.weightIn, n.weightOut, n.fee
	return math.Pow(bi/(amount+bi-amount*f), (wi+wo)/wo)
}

func reserve(amount fixedpoint.ScaledAmount, name string) (float64, error) {
	if amount.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %w: %s is %s", ErrMalformedPoolState, ErrInsufficientLiquidity, name, amount)
	}
	f, err := fixedpoint.ToFloat(amount, Decimals)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrMalformedPoolState, name, err)
	}
	return f, nil
}

func checkWeight(weight float64, name string) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return fmt.Errorf("%w: %s is %v", ErrMalformedPoolState, name, weight)
	}
	return nil
}

func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}

func finite(value float64, name string) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %s is %v", ErrMalformedPoolState, name, value)
	}
	return value, nil
}
