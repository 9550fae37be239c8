package math

import (
	"testing"

	binary "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

var (
	sqrtPriceOne = u128.New(0, 1)     // 2^64, price 1
	sqrtPriceLow = u128.New(1<<63, 0) // 2^63
	sqrtPriceHi  = u128.New(0, 2)     // 2^65
	// 10^12 units of liquidity in Q64
	liquidity = u128.MustFromString("18446744073709551616000000000000")
)

func TestGetNextSqrtPriceFromInput(t *testing.T) {
	next, err := GetNextSqrtPriceFromInput(sqrtPriceOne, liquidity, 1_000_000, true)
	require.NoError(t, err)
	assert.Equal(t, "18446725626983924633", u128.String(next))

	out, err := GetDeltaAmountB(next, sqrtPriceOne, liquidity, shared.RoundingDown)
	require.NoError(t, err)
	assert.Equal(t, uint64(999_999), out)

	next, err = GetNextSqrtPriceFromInput(sqrtPriceOne, liquidity, 1_000_000, false)
	require.NoError(t, err)
	assert.Equal(t, "18446762520453625325", u128.String(next))

	out, err = GetDeltaAmountA(sqrtPriceOne, next, liquidity, shared.RoundingDown)
	require.NoError(t, err)
	assert.Equal(t, uint64(999_999), out)
}

func TestGetNextSqrtPriceFromInputRawLiquidity(t *testing.T) {
	rawLiquidity := u128.FromUint64(1_000_000_000_000)
	next, err := GetNextSqrtPriceFromInput(sqrtPriceOne, rawLiquidity, 1_000_000, true)
	require.NoError(t, err)
	assert.Equal(t, -1, u128.Cmp(next, sqrtPriceOne))
	assert.Equal(t, uint64(1_000_000), next.Lo)

	out, err := GetDeltaAmountB(next, sqrtPriceOne, rawLiquidity, shared.RoundingDown)
	require.NoError(t, err)
	assert.Zero(t, out)
}

func TestGetNextSqrtPriceZeroAmount(t *testing.T) {
	next, err := GetNextSqrtPriceFromInput(sqrtPriceOne, liquidity, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 0, u128.Cmp(next, sqrtPriceOne))

	next, err = GetNextSqrtPriceFromInput(sqrtPriceOne, liquidity, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 0, u128.Cmp(next, sqrtPriceOne))
}

func TestGetNextSqrtPricePreconditions(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = GetNextSqrtPriceFromInput(binary.Uint128{}, liquidity, 1, true)
	})
	assert.Panics(t, func() {
		_, _ = GetNextSqrtPriceFromInput(sqrtPriceOne, binary.Uint128{}, 1, false)
	})
	assert.Panics(t, func() {
		_, _ = GetDeltaAmountA(binary.Uint128{}, sqrtPriceOne, liquidity, shared.RoundingUp)
	})
}

func TestGetNextSqrtPriceFromAmountBOverflow(t *testing.T) {
	maxU128 := u128.MustFromString("340282366920938463463374607431768211455")
	_, err := GetNextSqrtPriceFromInput(maxU128, u128.FromUint64(1), 1, false)
	require.ErrorIs(t, err, shared.ErrTypeCastFailed)
}

func TestDeltaAmountRounding(t *testing.T) {
	up, err := GetDeltaAmountB(sqrtPriceOne, u128.New(1, 1), u128.FromUint64(1), shared.RoundingUp)
	require.NoError(t, err)
	down, err := GetDeltaAmountB(sqrtPriceOne, u128.New(1, 1), u128.FromUint64(1), shared.RoundingDown)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), up)
	assert.Equal(t, uint64(0), down)

	a, err := GetDeltaAmountA(sqrtPriceLow, sqrtPriceHi, liquidity, shared.RoundingUp)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000_000_000), a)
}

func TestDeltaAmountOverflow(t *testing.T) {
	maxU128 := u128.MustFromString("340282366920938463463374607431768211455")
	_, err := GetDeltaAmountA(u128.FromUint64(1<<32), maxU128, maxU128, shared.RoundingDown)
	require.ErrorIs(t, err, shared.ErrMathOverflow)

	_, err = GetDeltaAmountB(u128.FromUint64(0), maxU128, maxU128, shared.RoundingDown)
	require.ErrorIs(t, err, shared.ErrMathOverflow)

	// reversed bounds
	_, err = GetDeltaAmountB(sqrtPriceHi, sqrtPriceLow, liquidity, shared.RoundingDown)
	require.ErrorIs(t, err, shared.ErrMathOverflow)
}

func TestTokenARoundTripNeverExceedsInput(t *testing.T) {
	for _, amountIn := range []uint64{1, 7, 999, 1_000_000, 123_456_789, 1_000_000_000} {
		next, err := GetNextSqrtPriceFromInput(sqrtPriceOne, liquidity, amountIn, true)
		require.NoError(t, err)
		back, err := GetDeltaAmountA(next, sqrtPriceOne, liquidity, shared.RoundingUp)
		require.NoError(t, err)
		assert.LessOrEqual(t, back, amountIn, "amount in %d", amountIn)
	}
}

func TestNextSqrtPriceMonotonic(t *testing.T) {
	for _, aForB := range []bool{true, false} {
		prev := sqrtPriceOne
		for _, amountIn := range []uint64{0, 1, 10, 1_000, 1_000_000, 1_000_000_000} {
			next, err := GetNextSqrtPriceFromInput(sqrtPriceOne, liquidity, amountIn, aForB)
			require.NoError(t, err)
			if aForB {
				assert.LessOrEqual(t, u128.Cmp(next, prev), 0)
			} else {
				assert.GreaterOrEqual(t, u128.Cmp(next, prev), 0)
			}
			prev = next
		}
	}
}

func TestGetInitialAmounts(t *testing.T) {
	a, b, err := GetInitialAmounts(sqrtPriceLow, sqrtPriceHi, sqrtPriceOne, liquidity)
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000_000_000), a)
	assert.Equal(t, uint64(500_000_000_000), b)
}
