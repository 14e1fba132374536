package baselock

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// nativeDecimals is the smallest-unit exponent of the chain's native asset.
const nativeDecimals = 18

// nativeTolerance is the deliberate 1% downward allowance applied to
// native-asset minimums, absorbing reference-rate staleness between lock
// creation and payment.
var nativeTolerance = big.NewRat(99, 100)

// AmountPolicy computes the minimum acceptable payment amount for a lock
// price and payment token.
//
// The stable token converts at face value with no tolerance: an underpayment
// of one atomic unit is rejected. The native asset converts through a
// configured reference rate and gets the tolerance band. Any other token is
// rejected outright.
type AmountPolicy struct {
	// StableToken is the fixed-decimals stablecoin accepted at face value.
	StableToken common.Address

	// StableDecimals is the stablecoin's decimal count (6 for USDC).
	StableDecimals int

	// NativeRate is the amount of native asset equal to one stable reference
	// unit (e.g. 0.0003 for 1 USDC = 0.0003 ETH). External configuration,
	// never derived on-chain.
	NativeRate *big.Rat
}

// MinimumAcceptable returns the smallest amount, in token atomic units, that
// satisfies the given price.
//
// For the native asset the result is exactly
// floor(price * NativeRate * 99/100 * 10^18), computed with rational
// arithmetic so the tolerance boundary is unit-precise.
func (p *AmountPolicy) MinimumAcceptable(price string, token common.Address) (*big.Int, error) {
	switch token {
	case p.StableToken:
		min, err := AmountToBigInt(price, p.StableDecimals)
		if err != nil {
			return nil, err
		}
		if min.Sign() <= 0 {
			return nil, ErrInvalidAmount
		}
		return min, nil

	case ZeroAddress:
		if p.NativeRate == nil || p.NativeRate.Sign() <= 0 {
			return nil, ErrUnsupportedToken
		}
		priceRat, ok := new(big.Rat).SetString(price)
		if !ok || priceRat.Sign() <= 0 {
			return nil, ErrInvalidAmount
		}
		min := new(big.Rat).Mul(priceRat, p.NativeRate)
		min.Mul(min, nativeTolerance)
		min.Mul(min, new(big.Rat).SetInt(exp10(nativeDecimals)))
		// big.Rat keeps the denominator positive, so truncation is floor here.
		return new(big.Int).Quo(min.Num(), min.Denom()), nil

	default:
		return nil, ErrUnsupportedToken
	}
}

func exp10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}
