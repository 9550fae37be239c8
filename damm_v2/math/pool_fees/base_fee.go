package pool_fees

import (
	"fmt"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
)

// BaseFee is the scheduled part of the trading fee. A zero PeriodFrequency
// makes it a flat CliffFeeNumerator.
type BaseFee struct {
	CliffFeeNumerator uint64
	FeeSchedulerMode  shared.FeeSchedulerMode
	NumberOfPeriod    uint16
	PeriodFrequency   uint64
	ReductionFactor   uint64
}

// CurrentBaseFeeNumerator resolves the scheduler period for currentPoint.
// Trades before activation (alpha vault) pay the fully decayed fee.
func (b BaseFee) CurrentBaseFeeNumerator(currentPoint, activationPoint uint64) (uint64, error) {
	if b.PeriodFrequency == 0 {
		return b.CliffFeeNumerator, nil
	}
	period := uint64(b.NumberOfPeriod)
	if currentPoint >= activationPoint {
		period = min((currentPoint-activationPoint)/b.PeriodFrequency, uint64(b.NumberOfPeriod))
	}
	return b.BaseFeeNumeratorByPeriod(period)
}

func (b BaseFee) BaseFeeNumeratorByPeriod(period uint64) (uint64, error) {
	switch b.FeeSchedulerMode {
	case shared.FeeSchedulerModeLinear:
		return GetFeeNumeratorOnLinearFeeScheduler(b.CliffFeeNumerator, b.ReductionFactor, period)
	case shared.FeeSchedulerModeExponential:
		if period > shared.U16Max {
			return 0, fmt.Errorf("period %d: %w", period, shared.ErrMathOverflow)
		}
		return GetFeeNumeratorOnExponentialFeeScheduler(b.CliffFeeNumerator, b.ReductionFactor, uint16(period))
	default:
		return 0, fmt.Errorf("fee scheduler mode %d: %w", b.FeeSchedulerMode, shared.ErrInvalidFee)
	}
}

// MinBaseFeeNumerator is the fee once every period has elapsed.
func (b BaseFee) MinBaseFeeNumerator() (uint64, error) {
	return b.BaseFeeNumeratorByPeriod(uint64(b.NumberOfPeriod))
}
