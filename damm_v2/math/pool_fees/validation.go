package pool_fees

import (
	"errors"
	"fmt"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

// Validate checks the fee configuration the same way pool creation does.
func (p PoolFees) Validate() error {
	var errs []error
	if err := p.BaseFee.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, share := range []struct {
		name    string
		percent uint8
	}{
		{"protocol", p.ProtocolFeePercent},
		{"partner", p.PartnerFeePercent},
		{"referral", p.ReferralFeePercent},
	} {
		if share.percent > shared.MaxFeePercent {
			errs = append(errs, fmt.Errorf("%s fee percent %d above %d: %w", share.name, share.percent, shared.MaxFeePercent, shared.ErrInvalidFee))
		}
	}
	if err := p.DynamicFee.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (b BaseFee) Validate() error {
	if b.PeriodFrequency != 0 || b.NumberOfPeriod != 0 || b.ReductionFactor != 0 {
		if b.PeriodFrequency == 0 || b.NumberOfPeriod == 0 || b.ReductionFactor == 0 {
			return fmt.Errorf("fee scheduler needs period frequency, number of period and reduction factor together: %w", shared.ErrInvalidFee)
		}
	}
	if err := ValidateFeeFraction(b.CliffFeeNumerator, shared.FeeDenominator); err != nil {
		return err
	}
	if b.CliffFeeNumerator > shared.MaxFeeNumerator {
		return fmt.Errorf("cliff fee numerator %d above %d: %w", b.CliffFeeNumerator, shared.MaxFeeNumerator, shared.ErrInvalidFee)
	}
	minFeeNumerator, err := b.MinBaseFeeNumerator()
	if err != nil {
		return err
	}
	if minFeeNumerator < shared.MinFeeNumerator {
		return fmt.Errorf("min base fee numerator %d below %d: %w", minFeeNumerator, shared.MinFeeNumerator, shared.ErrInvalidFee)
	}
	return nil
}

func (d DynamicFee) Validate() error {
	if !d.IsEnabled() {
		return nil
	}
	switch {
	case d.BinStep == 0 || u128.IsZero(d.BinStepU128):
		return fmt.Errorf("dynamic fee bin step is zero: %w", shared.ErrInvalidFee)
	case d.FilterPeriod >= d.DecayPeriod:
		return fmt.Errorf("dynamic fee filter period %d not below decay period %d: %w", d.FilterPeriod, d.DecayPeriod, shared.ErrInvalidFee)
	case d.ReductionFactor > shared.BasisPointMax:
		return fmt.Errorf("dynamic fee reduction factor %d above %d: %w", d.ReductionFactor, shared.BasisPointMax, shared.ErrInvalidFee)
	}
	return nil
}

func ValidateFeeFraction(numerator, denominator uint64) error {
	if denominator == 0 || numerator >= denominator {
		return fmt.Errorf("fee %d/%d: numerator must be less than denominator and denominator must be non-zero: %w", numerator, denominator, shared.ErrInvalidFee)
	}
	return nil
}
