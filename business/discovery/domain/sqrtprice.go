package domain

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/avilla-f/flasharb/internal/apperror"
)

// two192 is the Q96 price denominator squared: 2^192.
var two192 = new(big.Float).SetPrec(256).SetInt(new(big.Int).Lsh(big.NewInt(1), 192))

// PriceFromSqrt converts a pool's sqrtPriceX96 into a decimal exchange rate
// oriented borrow -> target (target tokens received per one borrow token).
//
// The raw value encodes sqrt(token1/token0) in Q64.96 fixed point, so the
// token1-per-token0 price is sqrtPriceX96^2 / 2^192 scaled by the decimals
// difference. When the borrow asset is token1 the price is inverted.
func PriceFromSqrt(sqrtPriceX96 *big.Int, borrowDecimals, targetDecimals uint8, borrowIsToken0 bool) (decimal.Decimal, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return decimal.Decimal{}, apperror.New(apperror.CodeInvalidSqrtPrice)
	}

	sqrt := new(big.Float).SetPrec(256).SetInt(sqrtPriceX96)
	price := new(big.Float).SetPrec(256).Mul(sqrt, sqrt)
	price.Quo(price, two192)

	rate, err := decimal.NewFromString(price.Text('f', 36))
	if err != nil {
		return decimal.Decimal{}, apperror.New(apperror.CodeInvalidSqrtPrice, apperror.WithCause(err))
	}

	// Prices below 10^-36 round to zero in either orientation: inverting
	// would divide by zero and passing zero through poisons downstream
	// rate division. Such pools are unpriceable at this precision.
	if rate.IsZero() {
		return decimal.Decimal{}, apperror.New(apperror.CodeInvalidSqrtPrice,
			apperror.WithContext("price underflow"))
	}

	if !borrowIsToken0 {
		rate = decimal.NewFromInt(1).DivRound(rate, 36)
	}

	// Scale by the decimals difference between the two sides of the pair.
	exp := int32(targetDecimals) - int32(borrowDecimals)
	if exp != 0 {
		rate = rate.Mul(decimal.New(1, exp))
	}

	return rate, nil
}
