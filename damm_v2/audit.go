package dammv2

import (
	"errors"
	"fmt"

	"github.com/krazyTry/meteora-quote/damm_v2/helpers"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

var ErrSwapEventMismatch = errors.New("swap event mismatch")

// VerifySwapEvent compares an off-chain result with the swap_result of an
// emitted EvtSwap and reports every differing field.
func VerifySwapEvent(result SwapResult, evt *helpers.EvtSwap) error {
	if evt == nil {
		return fmt.Errorf("verify swap event: nil event: %w", shared.ErrInvalidInput)
	}
	var errs []error
	check := func(field string, quoted, emitted uint64) {
		if quoted != emitted {
			errs = append(errs, fmt.Errorf("%w: %s quoted %d emitted %d", ErrSwapEventMismatch, field, quoted, emitted))
		}
	}
	got := evt.SwapResult
	check("output_amount", result.OutputAmount, got.OutputAmount)
	check("lp_fee", result.LpFee, got.LpFee)
	check("protocol_fee", result.ProtocolFee, got.ProtocolFee)
	check("partner_fee", result.PartnerFee, got.PartnerFee)
	check("referral_fee", result.ReferralFee, got.ReferralFee)
	if u128.Cmp(result.NextSqrtPrice, got.NextSqrtPrice) != 0 {
		errs = append(errs, fmt.Errorf("%w: next_sqrt_price quoted %s emitted %s",
			ErrSwapEventMismatch, u128.String(result.NextSqrtPrice), u128.String(got.NextSqrtPrice)))
	}
	return errors.Join(errs...)
}

// ReplaySwapEvent re-quotes the trade an EvtSwap describes against the
// pre-swap snapshot and verifies the emitted result. currentSlot is only read
// by slot-activated pools.
func ReplaySwapEvent(pool *Pool, config *Config, evt *helpers.EvtSwap, currentSlot uint64) (SwapResult, error) {
	if evt == nil || pool == nil {
		return SwapResult{}, fmt.Errorf("replay swap event: %w", shared.ErrInvalidInput)
	}
	if !pool.Address.IsZero() && !pool.Address.Equals(evt.Pool) {
		return SwapResult{}, fmt.Errorf("%w: event pool %s, snapshot pool %s", ErrSwapEventMismatch, evt.Pool, pool.Address)
	}
	aForB := evt.TradeDirection == uint8(shared.TradeDirectionAtoB)
	result, err := QuoteExactIn(pool, config, aForB, evt.CurrentTimestamp, currentSlot, evt.TransferFeeExcludedAmountIn, evt.IsReferral)
	if err != nil {
		return SwapResult{}, err
	}
	return result, VerifySwapEvent(result, evt)
}
