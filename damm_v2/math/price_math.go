package math

import (
	"errors"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

var q64 = decimal.NewFromBigInt(OneQ64.ToBig(), 0)

// Q64ToDecimal converts a Q64.64 value; decimalPlaces < 0 skips rounding.
func Q64ToDecimal(num binary.Uint128, decimalPlaces int32) decimal.Decimal {
	out := decimal.NewFromBigInt(u128.ToUint256(num).ToBig(), 0).Div(q64)
	if decimalPlaces >= 0 {
		return out.Round(decimalPlaces)
	}
	return out
}

// GetPriceFromSqrtPrice returns the token b per token a price in ui units.
func GetPriceFromSqrtPrice(sqrtPrice binary.Uint128, tokenADecimal, tokenBDecimal uint8) decimal.Decimal {
	sqrt := decimal.NewFromBigInt(u128.ToUint256(sqrtPrice).ToBig(), 0)
	price := sqrt.Mul(sqrt).Div(q64.Mul(q64))
	return price.Shift(int32(tokenADecimal) - int32(tokenBDecimal))
}

// GetSqrtPriceFromPrice is the inverse of GetPriceFromSqrtPrice, floored.
func GetSqrtPriceFromPrice(price decimal.Decimal, tokenADecimal, tokenBDecimal uint8) (binary.Uint128, error) {
	if !price.IsPositive() {
		return binary.Uint128{}, fmt.Errorf("price %s must be positive: %w", price, shared.ErrConversionError)
	}
	raw := price.Shift(int32(tokenBDecimal) - int32(tokenADecimal))
	// 40 digits keeps the Q64 fraction exact enough for the floor below
	sqrt, err := decimalSqrt(raw, 40)
	if err != nil {
		return binary.Uint128{}, err
	}
	v, err := u128.FromString(sqrt.Mul(q64).Floor().String())
	if err != nil {
		return binary.Uint128{}, errors.Join(shared.ErrTypeCastFailed, err)
	}
	return v, nil
}

// decimalSqrt runs Newton iterations until the estimate stops moving.
func decimalSqrt(v decimal.Decimal, precision int32) (decimal.Decimal, error) {
	if v.IsZero() {
		return decimal.Zero, nil
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("square root of %s: %w", v, shared.ErrConversionError)
	}
	two := decimal.NewFromInt(2)
	x := v
	if v.LessThan(decimal.NewFromInt(1)) {
		x = decimal.NewFromInt(1)
	}
	for i := 0; i < 200; i++ {
		next := x.Add(v.DivRound(x, precision)).DivRound(two, precision)
		if next.Equal(x) {
			break
		}
		x = next
	}
	return x, nil
}
