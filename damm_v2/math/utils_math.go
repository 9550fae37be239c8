package math

import (
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

var (
	one    = uint256.NewInt(1)
	OneQ64 = new(uint256.Int).Lsh(one, shared.ScaleOffset)
	// MaxU128 is 2^128 - 1.
	MaxU128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(one, 128), one)
)

// MulDiv returns x*y/denominator rounded in the given direction. The product
// is formed in 256 bits; a zero denominator or a product that does not fit
// 256 bits is a MathOverflow.
func MulDiv(x, y, denominator *uint256.Int, rounding shared.Rounding) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, fmt.Errorf("mul div by zero: %w", shared.ErrMathOverflow)
	}
	prod, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, fmt.Errorf("mul div product: %w", shared.ErrMathOverflow)
	}
	quotient, remainder := new(uint256.Int).DivMod(prod, denominator, new(uint256.Int))
	if rounding == shared.RoundingUp && !remainder.IsZero() {
		quotient.Add(quotient, one)
	}
	return quotient, nil
}

// MulDivU64 is MulDiv on 64-bit operands narrowed back to 64 bits.
func MulDivU64(x, y, denominator uint64, rounding shared.Rounding) (uint64, error) {
	v, err := MulDiv(uint256.NewInt(x), uint256.NewInt(y), uint256.NewInt(denominator), rounding)
	if err != nil {
		return 0, err
	}
	return ToU64(v)
}

// ShlDiv returns (x << offset) / y narrowed to 128 bits.
func ShlDiv(x, y binary.Uint128, offset uint, rounding shared.Rounding) (binary.Uint128, error) {
	if u128.IsZero(y) {
		return binary.Uint128{}, fmt.Errorf("shl div by zero: %w", shared.ErrMathOverflow)
	}
	wide := u128.ToUint256(x)
	if wide.BitLen()+int(offset) > 256 {
		return binary.Uint128{}, fmt.Errorf("shl div shift: %w", shared.ErrMathOverflow)
	}
	shifted := new(uint256.Int).Lsh(wide, offset)
	quotient, remainder := new(uint256.Int).DivMod(shifted, u128.ToUint256(y), new(uint256.Int))
	if rounding == shared.RoundingUp && !remainder.IsZero() {
		quotient.Add(quotient, one)
	}
	return ToU128(quotient)
}

// CheckedAdd adds in 256 bits and fails on wrap.
func CheckedAdd(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, fmt.Errorf("add: %w", shared.ErrMathOverflow)
	}
	return z, nil
}

// CheckedSub fails when y > x.
func CheckedSub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, fmt.Errorf("sub: %w", shared.ErrMathOverflow)
	}
	return z, nil
}

func CheckedMul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, fmt.Errorf("mul: %w", shared.ErrMathOverflow)
	}
	return z, nil
}

// CheckedMulU128 multiplies and fails when the product leaves the u128 range.
func CheckedMulU128(x, y *uint256.Int) (*uint256.Int, error) {
	z, err := CheckedMul(x, y)
	if err != nil {
		return nil, err
	}
	if z.BitLen() > 128 {
		return nil, fmt.Errorf("u128 mul: %w", shared.ErrMathOverflow)
	}
	return z, nil
}

func ToU64(z *uint256.Int) (uint64, error) {
	if !z.IsUint64() {
		return 0, fmt.Errorf("%s does not fit u64: %w", z.Dec(), shared.ErrTypeCastFailed)
	}
	return z.Uint64(), nil
}

func ToU128(z *uint256.Int) (binary.Uint128, error) {
	v, ok := u128.FromUint256(z)
	if !ok {
		return binary.Uint128{}, fmt.Errorf("%s does not fit u128: %w", z.Dec(), shared.ErrTypeCastFailed)
	}
	return v, nil
}

// Pow raises a Q64.64 base to exp, returning false where the on-chain
// routine returns None.
func Pow(base *uint256.Int, exp int32) (*uint256.Int, bool) {
	invert := exp < 0
	if exp == 0 {
		return new(uint256.Int).Set(OneQ64), true
	}
	absExp := uint32(exp)
	if invert {
		absExp = uint32(-int64(exp))
	}
	if absExp >= shared.MaxExponential {
		return nil, false
	}

	squaredBase := new(uint256.Int).Set(base)
	result := new(uint256.Int).Set(OneQ64)
	if !squaredBase.Lt(result) {
		if squaredBase.IsZero() {
			return nil, false
		}
		squaredBase = new(uint256.Int).Div(MaxU128, squaredBase)
		invert = !invert
	}

	for bit := uint(0); bit <= 18; bit++ {
		if absExp&(1<<bit) != 0 {
			r, err := CheckedMulU128(result, squaredBase)
			if err != nil {
				return nil, false
			}
			result = r.Rsh(r, shared.ScaleOffset)
		}
		sq, err := CheckedMulU128(squaredBase, squaredBase)
		if err != nil {
			return nil, false
		}
		squaredBase = sq.Rsh(sq, shared.ScaleOffset)
	}

	if result.IsZero() {
		return nil, false
	}
	if invert {
		result = new(uint256.Int).Div(MaxU128, result)
	}
	return result, true
}
