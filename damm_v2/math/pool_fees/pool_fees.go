package pool_fees

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/krazyTry/meteora-quote/damm_v2/math"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
)

// PoolFees holds the fee configuration of a pool.
//
//	trading_fee  = amount * fee_numerator / FeeDenominator
//	protocol_fee = trading_fee * protocol_fee_percent / 100
//	referral_fee = protocol_fee * referral_fee_percent / 100
//	partner_fee  = (protocol_fee - referral_fee) * partner_fee_percent / 100
type PoolFees struct {
	BaseFee            BaseFee
	ProtocolFeePercent uint8
	PartnerFeePercent  uint8
	ReferralFeePercent uint8
	DynamicFee         DynamicFee
}

// FeeOnAmountResult is the amount left after the trading fee plus the fee shares.
type FeeOnAmountResult struct {
	Amount      uint64
	LpFee       uint64
	ProtocolFee uint64
	PartnerFee  uint64
	ReferralFee uint64
}

// TotalFee is the sum of the four fee shares.
func (r FeeOnAmountResult) TotalFee() uint64 {
	return r.LpFee + r.ProtocolFee + r.PartnerFee + r.ReferralFee
}

// TotalTradingFeeNumerator is base + variable fee, capped at MaxFeeNumerator.
func (p PoolFees) TotalTradingFeeNumerator(currentPoint, activationPoint uint64) (uint64, error) {
	baseFeeNumerator, err := p.BaseFee.CurrentBaseFeeNumerator(currentPoint, activationPoint)
	if err != nil {
		return 0, err
	}
	variableFee, err := p.DynamicFee.VariableFeeNumerator()
	if err != nil {
		return 0, err
	}
	total, err := math.CheckedAdd(variableFee, uint256.NewInt(baseFeeNumerator))
	if err != nil {
		return 0, err
	}
	if total.BitLen() > 128 {
		return 0, fmt.Errorf("total fee numerator: %w", shared.ErrMathOverflow)
	}
	if total.Gt(uint256.NewInt(shared.MaxFeeNumerator)) {
		return shared.MaxFeeNumerator, nil
	}
	return total.Uint64(), nil
}

// FeeOnAmount takes the trading fee out of amount, rounding the fee up, and
// splits it between lp, protocol, partner and referral. The partner share is
// only taken when hasPartner is set.
func (p PoolFees) FeeOnAmount(amount uint64, hasPartner, isReferral bool, currentPoint, activationPoint uint64) (FeeOnAmountResult, error) {
	tradeFeeNumerator, err := p.TotalTradingFeeNumerator(currentPoint, activationPoint)
	if err != nil {
		return FeeOnAmountResult{}, err
	}
	tradingFee, err := math.MulDivU64(amount, tradeFeeNumerator, shared.FeeDenominator, shared.RoundingUp)
	if err != nil {
		return FeeOnAmountResult{}, fmt.Errorf("trading fee: %w: %w", shared.ErrFeeCalculationFailure, err)
	}
	if tradingFee > amount {
		return FeeOnAmountResult{}, fmt.Errorf("trading fee %d exceeds amount %d: %w", tradingFee, amount, shared.ErrFeeCalculationFailure)
	}

	split, err := p.SplitFees(tradingFee, hasPartner, isReferral)
	if err != nil {
		return FeeOnAmountResult{}, err
	}
	split.Amount = amount - tradingFee
	return split, nil
}

// SplitFees divides tradingFee into its shares; Amount is left zero.
func (p PoolFees) SplitFees(tradingFee uint64, hasPartner, isReferral bool) (FeeOnAmountResult, error) {
	protocolFee, err := percentOf(tradingFee, p.ProtocolFeePercent)
	if err != nil {
		return FeeOnAmountResult{}, err
	}
	lpFee := tradingFee - protocolFee

	var referralFee uint64
	if isReferral {
		if referralFee, err = percentOf(protocolFee, p.ReferralFeePercent); err != nil {
			return FeeOnAmountResult{}, err
		}
	}
	protocolFeeAfterReferral := protocolFee - referralFee

	var partnerFee uint64
	if hasPartner && p.PartnerFeePercent > 0 {
		if partnerFee, err = percentOf(protocolFeeAfterReferral, p.PartnerFeePercent); err != nil {
			return FeeOnAmountResult{}, err
		}
	}

	return FeeOnAmountResult{
		LpFee:       lpFee,
		ProtocolFee: protocolFeeAfterReferral - partnerFee,
		PartnerFee:  partnerFee,
		ReferralFee: referralFee,
	}, nil
}

func percentOf(amount uint64, percent uint8) (uint64, error) {
	if percent > shared.MaxFeePercent {
		return 0, fmt.Errorf("fee percent %d: %w", percent, shared.ErrFeeCalculationFailure)
	}
	share, err := math.MulDivU64(amount, uint64(percent), 100, shared.RoundingDown)
	if err != nil {
		return 0, fmt.Errorf("fee share: %w: %w", shared.ErrFeeCalculationFailure, err)
	}
	return share, nil
}
