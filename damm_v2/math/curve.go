package math

import (
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

// GetInitialAmounts returns the token a and token b amounts needed to seed
// liquidity at sqrtPrice inside [sqrtMinPrice, sqrtMaxPrice]. Both round up.
func GetInitialAmounts(sqrtMinPrice, sqrtMaxPrice, sqrtPrice, liquidity binary.Uint128) (uint64, uint64, error) {
	amountA, err := GetDeltaAmountA(sqrtPrice, sqrtMaxPrice, liquidity, shared.RoundingUp)
	if err != nil {
		return 0, 0, err
	}
	amountB, err := GetDeltaAmountB(sqrtMinPrice, sqrtPrice, liquidity, shared.RoundingUp)
	if err != nil {
		return 0, 0, err
	}
	return amountA, amountB, nil
}

// GetDeltaAmountA computes L * (upper - lower) / (upper * lower).
func GetDeltaAmountA(lowerSqrtPrice, upperSqrtPrice, liquidity binary.Uint128, rounding shared.Rounding) (uint64, error) {
	result, err := getDeltaAmountAUnsignedUnchecked(lowerSqrtPrice, upperSqrtPrice, liquidity, rounding)
	if err != nil {
		return 0, err
	}
	if !result.IsUint64() {
		return 0, fmt.Errorf("delta amount a %s: %w", result.Dec(), shared.ErrMathOverflow)
	}
	return result.Uint64(), nil
}

func getDeltaAmountAUnsignedUnchecked(lowerSqrtPrice, upperSqrtPrice, liquidity binary.Uint128, rounding shared.Rounding) (*uint256.Int, error) {
	lower := u128.ToUint256(lowerSqrtPrice)
	upper := u128.ToUint256(upperSqrtPrice)
	numerator2, err := CheckedSub(upper, lower)
	if err != nil {
		return nil, err
	}
	denominator := new(uint256.Int).Mul(lower, upper)
	if denominator.IsZero() {
		panic("denominator must be greater than zero")
	}
	return MulDiv(u128.ToUint256(liquidity), numerator2, denominator, rounding)
}

// GetDeltaAmountB computes L * (upper - lower) >> 128.
func GetDeltaAmountB(lowerSqrtPrice, upperSqrtPrice, liquidity binary.Uint128, rounding shared.Rounding) (uint64, error) {
	result, err := getDeltaAmountBUnsignedUnchecked(lowerSqrtPrice, upperSqrtPrice, liquidity, rounding)
	if err != nil {
		return 0, err
	}
	if !result.IsUint64() {
		return 0, fmt.Errorf("delta amount b %s: %w", result.Dec(), shared.ErrMathOverflow)
	}
	return result.Uint64(), nil
}

func getDeltaAmountBUnsignedUnchecked(lowerSqrtPrice, upperSqrtPrice, liquidity binary.Uint128, rounding shared.Rounding) (*uint256.Int, error) {
	deltaSqrtPrice, err := CheckedSub(u128.ToUint256(upperSqrtPrice), u128.ToUint256(lowerSqrtPrice))
	if err != nil {
		return nil, err
	}
	// both factors are below 2^128
	prod := new(uint256.Int).Mul(u128.ToUint256(liquidity), deltaSqrtPrice)
	result := new(uint256.Int).Rsh(prod, shared.ResolutionBits)
	if rounding == shared.RoundingUp {
		mask := new(uint256.Int).Sub(new(uint256.Int).Lsh(one, shared.ResolutionBits), one)
		if !new(uint256.Int).And(prod, mask).IsZero() {
			result.Add(result, one)
		}
	}
	return result, nil
}

// GetNextSqrtPriceFromInput returns the sqrt price after amountIn of token a
// (aForB) or token b enters the curve. It panics on a zero sqrt price or a
// zero liquidity.
func GetNextSqrtPriceFromInput(sqrtPrice, liquidity binary.Uint128, amountIn uint64, aForB bool) (binary.Uint128, error) {
	if u128.IsZero(sqrtPrice) {
		panic("sqrt price must be greater than zero")
	}
	if u128.IsZero(liquidity) {
		panic("liquidity must be greater than zero")
	}
	if aForB {
		return GetNextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amountIn)
	}
	return GetNextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amountIn)
}

// GetNextSqrtPriceFromAmountARoundingUp computes L * √P / (L + Δx * √P).
func GetNextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity binary.Uint128, amount uint64) (binary.Uint128, error) {
	if amount == 0 {
		return sqrtPrice, nil
	}
	sqrtPriceWide := u128.ToUint256(sqrtPrice)
	liquidityWide := u128.ToUint256(liquidity)

	product := new(uint256.Int).Mul(uint256.NewInt(amount), sqrtPriceWide)
	denominator, err := CheckedAdd(liquidityWide, product)
	if err != nil {
		return binary.Uint128{}, err
	}
	result, err := MulDiv(liquidityWide, sqrtPriceWide, denominator, shared.RoundingUp)
	if err != nil {
		return binary.Uint128{}, err
	}
	return ToU128(result)
}

// GetNextSqrtPriceFromAmountBRoundingDown computes √P + (Δy << 128) / L.
func GetNextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity binary.Uint128, amount uint64) (binary.Uint128, error) {
	quotient := new(uint256.Int).Lsh(uint256.NewInt(amount), shared.ResolutionBits)
	quotient.Div(quotient, u128.ToUint256(liquidity))
	result, err := CheckedAdd(u128.ToUint256(sqrtPrice), quotient)
	if err != nil {
		return binary.Uint128{}, err
	}
	return ToU128(result)
}
