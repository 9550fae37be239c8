package helpers

import (
	"errors"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	dammmath "github.com/krazyTry/meteora-quote/damm_v2/math"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

func BpsToFeeNumerator(bps uint16) uint64 {
	return uint64(bps) * shared.FeeDenominator / shared.BasisPointMax
}

func FeeNumeratorToBps(feeNumerator uint64) uint16 {
	return uint16(feeNumerator * shared.BasisPointMax / shared.FeeDenominator)
}

// GetAmountWithSlippage returns the minimum acceptable output of an exact-in
// swap: amount * (10000 - slippageBps) / 10000, rounded down.
func GetAmountWithSlippage(amount uint64, slippageBps uint16) (uint64, error) {
	if slippageBps > shared.BasisPointMax {
		return 0, fmt.Errorf("slippage %d bps: %w", slippageBps, shared.ErrInvalidParameters)
	}
	if slippageBps == 0 {
		return amount, nil
	}
	return dammmath.MulDivU64(amount, shared.BasisPointMax-uint64(slippageBps), shared.BasisPointMax, shared.RoundingDown)
}

// GetPriceChange returns |next^2 - current^2| / current^2 * 100. The decimal
// scaling of both prices cancels out.
func GetPriceChange(nextSqrtPrice, currentSqrtPrice binary.Uint128) decimal.Decimal {
	cur := u128.ToUint256(currentSqrtPrice)
	if cur.IsZero() {
		return decimal.Zero
	}
	next := u128.ToUint256(nextSqrtPrice)
	den := new(uint256.Int).Mul(cur, cur)
	num := new(uint256.Int).Mul(next, next)
	if num.Lt(den) {
		num.Sub(den, num)
	} else {
		num.Sub(num, den)
	}
	return decimal.NewFromBigInt(num.ToBig(), 0).
		Div(decimal.NewFromBigInt(den.ToBig(), 0)).
		Mul(decimal.NewFromInt(100))
}

// GetDynamicFeeParams derives the default dynamic fee parameters that cap the
// variable fee at 20% of the base fee for a maxPriceChangeBps move.
func GetDynamicFeeParams(baseFeeBps uint16, maxPriceChangeBps uint16) (DynamicFeeStruct, error) {
	if maxPriceChangeBps == 0 {
		maxPriceChangeBps = shared.MaxPriceChangeBpsDefault
	}
	if maxPriceChangeBps > shared.MaxPriceChangeBpsDefault {
		return DynamicFeeStruct{}, errors.New("maxPriceChangeBps must be <= MaxPriceChangeBpsDefault")
	}

	priceRatio := decimal.NewFromInt(int64(maxPriceChangeBps)).
		Div(decimal.NewFromInt(shared.BasisPointMax)).
		Add(decimal.NewFromInt(1))
	sqrtPriceRatio, err := dammmath.GetSqrtPriceFromPrice(priceRatio, 0, 0)
	if err != nil {
		return DynamicFeeStruct{}, err
	}

	binStepU128 := u128.MustFromString(shared.BinStepBpsU128Default)
	deltaBinID := new(uint256.Int).Sub(u128.ToUint256(sqrtPriceRatio), dammmath.OneQ64)
	deltaBinID.Div(deltaBinID, u128.ToUint256(binStepU128))
	deltaBinID.Mul(deltaBinID, uint256.NewInt(2))

	maxVolatilityAccumulator := new(uint256.Int).Mul(deltaBinID, uint256.NewInt(shared.BasisPointMax))
	squareVfaBin := new(uint256.Int).Mul(maxVolatilityAccumulator, uint256.NewInt(shared.BinStepBpsDefault))
	squareVfaBin.Mul(squareVfaBin, squareVfaBin)

	maxDynamicFeeNumerator := BpsToFeeNumerator(baseFeeBps) * 20 / 100
	vFee := new(uint256.Int).Mul(uint256.NewInt(maxDynamicFeeNumerator), uint256.NewInt(shared.DynamicFeeScalingFactor))
	if vFee.Lt(uint256.NewInt(shared.DynamicFeeRoundingOffset)) {
		return DynamicFeeStruct{}, fmt.Errorf("base fee %d bps too low for a dynamic fee: %w", baseFeeBps, shared.ErrInvalidFee)
	}
	vFee.SubUint64(vFee, shared.DynamicFeeRoundingOffset)
	variableFeeControl := new(uint256.Int).Div(vFee, squareVfaBin)

	return DynamicFeeStruct{
		Initialized:              1,
		BinStep:                  shared.BinStepBpsDefault,
		BinStepU128:              binStepU128,
		FilterPeriod:             shared.DynamicFeeFilterPeriodDefault,
		DecayPeriod:              shared.DynamicFeeDecayPeriodDefault,
		ReductionFactor:          shared.DynamicFeeReductionFactorDefault,
		MaxVolatilityAccumulator: uint32(maxVolatilityAccumulator.Uint64()),
		VariableFeeControl:       uint32(variableFeeControl.Uint64()),
	}, nil
}
