package dammv2

import (
	"fmt"

	binary "github.com/gagliardetto/binary"

	"github.com/krazyTry/meteora-quote/damm_v2/math"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

// GetSwapResult simulates one exact-in swap against the pool.
//
//	A->B, any mode:  fee taken on the B output
//	B->A, BothToken: fee taken on the A output
//	B->A, OnlyB:     fee taken on the B input, curve runs with FeeSkipped
func (p Pool) GetSwapResult(amountIn uint64, isReferral bool, direction shared.TradeDirection, currentPoint uint64) (SwapResult, error) {
	collectFeeMode, err := shared.ParseCollectFeeMode(p.CollectFeeMode)
	if err != nil {
		return SwapResult{}, err
	}

	switch direction {
	case shared.TradeDirectionAtoB:
		return p.swapAtoB(amountIn, isReferral, currentPoint)
	case shared.TradeDirectionBtoA:
		if collectFeeMode == shared.CollectFeeModeBothToken {
			return p.swapBtoA(amountIn, isReferral, shared.FeeApplied, currentPoint)
		}
		fee, err := p.PoolFees.FeeOnAmount(amountIn, p.HasPartner(), isReferral, currentPoint, p.ActivationPoint)
		if err != nil {
			return SwapResult{}, err
		}
		result, err := p.swapBtoA(fee.Amount, isReferral, shared.FeeSkipped, currentPoint)
		if err != nil {
			return SwapResult{}, err
		}
		result.LpFee = fee.LpFee
		result.ProtocolFee = fee.ProtocolFee
		result.PartnerFee = fee.PartnerFee
		result.ReferralFee = fee.ReferralFee
		return result, nil
	default:
		return SwapResult{}, fmt.Errorf("trade direction %d: %w", direction, shared.ErrInvalidParameters)
	}
}

func (p Pool) swapAtoB(amountIn uint64, isReferral bool, currentPoint uint64) (SwapResult, error) {
	nextSqrtPrice, err := math.GetNextSqrtPriceFromInput(p.SqrtPrice, p.Liquidity, amountIn, true)
	if err != nil {
		return SwapResult{}, err
	}
	if u128.Cmp(nextSqrtPrice, p.SqrtMinPrice) < 0 {
		return SwapResult{}, fmt.Errorf("next sqrt price %s below min %s: %w",
			u128.String(nextSqrtPrice), u128.String(p.SqrtMinPrice), shared.ErrPriceRangeViolation)
	}
	outputAmount, err := math.GetDeltaAmountB(nextSqrtPrice, p.SqrtPrice, p.Liquidity, shared.RoundingDown)
	if err != nil {
		return SwapResult{}, err
	}
	return p.withFee(outputAmount, nextSqrtPrice, isReferral, shared.FeeApplied, currentPoint)
}

func (p Pool) swapBtoA(amountIn uint64, isReferral bool, treatment shared.FeeTreatment, currentPoint uint64) (SwapResult, error) {
	nextSqrtPrice, err := math.GetNextSqrtPriceFromInput(p.SqrtPrice, p.Liquidity, amountIn, false)
	if err != nil {
		return SwapResult{}, err
	}
	if u128.Cmp(nextSqrtPrice, p.SqrtMaxPrice) > 0 {
		return SwapResult{}, fmt.Errorf("next sqrt price %s above max %s: %w",
			u128.String(nextSqrtPrice), u128.String(p.SqrtMaxPrice), shared.ErrPriceRangeViolation)
	}
	outputAmount, err := math.GetDeltaAmountA(p.SqrtPrice, nextSqrtPrice, p.Liquidity, shared.RoundingDown)
	if err != nil {
		return SwapResult{}, err
	}
	return p.withFee(outputAmount, nextSqrtPrice, isReferral, treatment, currentPoint)
}

func (p Pool) withFee(outputAmount uint64, nextSqrtPrice binary.Uint128, isReferral bool, treatment shared.FeeTreatment, currentPoint uint64) (SwapResult, error) {
	switch treatment {
	case shared.FeeSkipped:
		return SwapResult{OutputAmount: outputAmount, NextSqrtPrice: nextSqrtPrice}, nil
	case shared.FeeApplied:
		fee, err := p.PoolFees.FeeOnAmount(outputAmount, p.HasPartner(), isReferral, currentPoint, p.ActivationPoint)
		if err != nil {
			return SwapResult{}, err
		}
		return SwapResult{
			OutputAmount:  fee.Amount,
			NextSqrtPrice: nextSqrtPrice,
			LpFee:         fee.LpFee,
			ProtocolFee:   fee.ProtocolFee,
			PartnerFee:    fee.PartnerFee,
			ReferralFee:   fee.ReferralFee,
		}, nil
	default:
		return SwapResult{}, fmt.Errorf("fee treatment %d: %w", treatment, shared.ErrInvalidParameters)
	}
}
