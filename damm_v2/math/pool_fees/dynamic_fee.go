package pool_fees

import (
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"

	"github.com/krazyTry/meteora-quote/damm_v2/math"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

// DynamicFee is the volatility surcharge state of a pool. Methods return an
// updated copy and never modify the receiver.
type DynamicFee struct {
	Initialized              uint8
	MaxVolatilityAccumulator uint32
	VariableFeeControl       uint32
	BinStep                  uint16
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	LastUpdateTimestamp      uint64
	BinStepU128              binary.Uint128
	SqrtPriceReference       binary.Uint128
	VolatilityAccumulator    binary.Uint128
	VolatilityReference      binary.Uint128
}

func (d DynamicFee) IsEnabled() bool {
	return d.Initialized != 0
}

// VariableFeeNumerator returns
// ceil((volatility_accumulator * bin_step)^2 * variable_fee_control / 1e11),
// or zero when the dynamic fee is off.
func (d DynamicFee) VariableFeeNumerator() (*uint256.Int, error) {
	if !d.IsEnabled() {
		return new(uint256.Int), nil
	}
	vaBin, err := math.CheckedMulU128(u128.ToUint256(d.VolatilityAccumulator), uint256.NewInt(uint64(d.BinStep)))
	if err != nil {
		return nil, err
	}
	squareVfaBin, err := math.CheckedMulU128(vaBin, vaBin)
	if err != nil {
		return nil, err
	}
	vFee, err := math.CheckedMulU128(squareVfaBin, uint256.NewInt(uint64(d.VariableFeeControl)))
	if err != nil {
		return nil, err
	}
	vFee.Add(vFee, uint256.NewInt(shared.DynamicFeeRoundingOffset))
	if vFee.BitLen() > 128 {
		return nil, fmt.Errorf("variable fee: %w", shared.ErrMathOverflow)
	}
	return vFee.Div(vFee, uint256.NewInt(shared.DynamicFeeScalingFactor)), nil
}

// UpdateReferences moves the sqrt price reference once FilterPeriod has passed
// and decays the volatility reference, zeroing it after DecayPeriod.
func (d DynamicFee) UpdateReferences(sqrtPriceCurrent binary.Uint128, currentTimestamp uint64) (DynamicFee, error) {
	if currentTimestamp < d.LastUpdateTimestamp {
		return d, fmt.Errorf("timestamp %d before last update %d: %w", currentTimestamp, d.LastUpdateTimestamp, shared.ErrMathOverflow)
	}
	elapsed := currentTimestamp - d.LastUpdateTimestamp
	next := d
	if elapsed >= uint64(d.FilterPeriod) {
		next.SqrtPriceReference = sqrtPriceCurrent
		if elapsed < uint64(d.DecayPeriod) {
			decayed, err := math.CheckedMulU128(u128.ToUint256(d.VolatilityAccumulator), uint256.NewInt(uint64(d.ReductionFactor)))
			if err != nil {
				return d, err
			}
			decayed.Div(decayed, uint256.NewInt(shared.BasisPointMax))
			if next.VolatilityReference, err = math.ToU128(decayed); err != nil {
				return d, err
			}
		} else {
			next.VolatilityReference = u128.FromUint64(0)
		}
	}
	return next, nil
}

// UpdateVolatilityAccumulator folds the price move since SqrtPriceReference
// into the accumulator, capped at MaxVolatilityAccumulator.
func (d DynamicFee) UpdateVolatilityAccumulator(sqrtPrice binary.Uint128) (DynamicFee, error) {
	deltaBinID, err := GetDeltaBinID(d.BinStepU128, d.SqrtPriceReference, sqrtPrice)
	if err != nil {
		return d, err
	}
	delta, err := math.CheckedMulU128(deltaBinID, uint256.NewInt(shared.BasisPointMax))
	if err != nil {
		return d, err
	}
	acc, err := math.CheckedAdd(u128.ToUint256(d.VolatilityReference), delta)
	if err != nil {
		return d, err
	}
	if acc.Gt(uint256.NewInt(uint64(d.MaxVolatilityAccumulator))) {
		acc = uint256.NewInt(uint64(d.MaxVolatilityAccumulator))
	}
	next := d
	if next.VolatilityAccumulator, err = math.ToU128(acc); err != nil {
		return d, err
	}
	return next, nil
}

// GetDeltaBinID counts the bins of size binStepU128 between two sqrt prices.
func GetDeltaBinID(binStepU128, sqrtPriceA, sqrtPriceB binary.Uint128) (*uint256.Int, error) {
	upper, lower := sqrtPriceA, sqrtPriceB
	if u128.Cmp(sqrtPriceA, sqrtPriceB) <= 0 {
		upper, lower = sqrtPriceB, sqrtPriceA
	}
	priceRatio, err := math.ShlDiv(upper, lower, shared.ScaleOffset, shared.RoundingDown)
	if err != nil {
		return nil, err
	}
	if u128.IsZero(binStepU128) {
		return nil, fmt.Errorf("zero bin step: %w", shared.ErrMathOverflow)
	}
	delta, err := math.CheckedSub(u128.ToUint256(priceRatio), math.OneQ64)
	if err != nil {
		return nil, err
	}
	delta.Div(delta, u128.ToUint256(binStepU128))
	return math.CheckedMulU128(delta, uint256.NewInt(2))
}
