package pool_fees

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/krazyTry/meteora-quote/damm_v2/math"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
)

// GetFeeNumeratorOnLinearFeeScheduler returns cliff - period * reductionFactor.
func GetFeeNumeratorOnLinearFeeScheduler(cliffFeeNumerator, reductionFactor, period uint64) (uint64, error) {
	reduction, err := math.CheckedMul(uint256.NewInt(period), uint256.NewInt(reductionFactor))
	if err != nil {
		return 0, err
	}
	fee, err := math.CheckedSub(uint256.NewInt(cliffFeeNumerator), reduction)
	if err != nil {
		return 0, fmt.Errorf("linear fee scheduler: %w", err)
	}
	return fee.Uint64(), nil
}

// GetFeeNumeratorOnExponentialFeeScheduler returns
// cliff * (1 - reductionFactor/10_000)^period in Q64.64.
func GetFeeNumeratorOnExponentialFeeScheduler(cliffFeeNumerator, reductionFactor uint64, period uint16) (uint64, error) {
	if reductionFactor == 0 {
		return cliffFeeNumerator, nil
	}
	bps := new(uint256.Int).Lsh(uint256.NewInt(reductionFactor), shared.ScaleOffset)
	bps.Div(bps, uint256.NewInt(shared.BasisPointMax))
	if bps.BitLen() > 128 {
		return 0, fmt.Errorf("reduction factor %d: %w", reductionFactor, shared.ErrMathOverflow)
	}
	base, err := math.CheckedSub(math.OneQ64, bps)
	if err != nil {
		return 0, fmt.Errorf("reduction factor %d: %w", reductionFactor, err)
	}
	result, ok := math.Pow(base, int32(period))
	if !ok {
		return 0, fmt.Errorf("exponential fee scheduler pow: %w", shared.ErrMathOverflow)
	}
	fee, err := math.CheckedMulU128(result, uint256.NewInt(cliffFeeNumerator))
	if err != nil {
		return 0, err
	}
	fee.Rsh(fee, shared.ScaleOffset)
	return math.ToU64(fee)
}
