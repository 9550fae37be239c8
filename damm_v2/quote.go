package dammv2

import (
	"fmt"

	"github.com/krazyTry/meteora-quote/damm_v2/helpers"
	"github.com/krazyTry/meteora-quote/damm_v2/math"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
)

// QuoteExactIn returns the result of swapping amountIn (already net of any
// token transfer fee) into the pool. The pool is copied and never modified.
// config is accepted for parity with the swap instruction and may be nil.
func QuoteExactIn(pool *Pool, config *Config, aForB bool, currentTimestamp, currentSlot, amountIn uint64, isReferral bool) (SwapResult, error) {
	if amountIn == 0 {
		return SwapResult{}, fmt.Errorf("quote exact in: %w", shared.ErrAmountIsZero)
	}
	if pool == nil {
		return SwapResult{}, fmt.Errorf("quote exact in: nil pool: %w", shared.ErrInvalidInput)
	}
	snapshot := *pool
	if err := snapshot.Validate(); err != nil {
		return SwapResult{}, err
	}

	snapshot, err := snapshot.UpdatePreSwap(currentTimestamp)
	if err != nil {
		return SwapResult{}, err
	}
	currentPoint, err := snapshot.CurrentPoint(currentTimestamp, currentSlot)
	if err != nil {
		return SwapResult{}, err
	}
	return snapshot.GetSwapResult(amountIn, isReferral, shared.TradeDirectionFromAForB(aForB), currentPoint)
}

// GetQuote quotes params.InAmount of params.InputTokenMint, removing token-2022
// transfer fees on both legs and applying the slippage tolerance to the output.
func GetQuote(params GetQuoteParams) (QuoteResult, error) {
	pool := params.Pool
	if pool == nil {
		return QuoteResult{}, fmt.Errorf("get quote: nil pool: %w", shared.ErrInvalidInput)
	}
	var aToB bool
	switch {
	case params.InputTokenMint.Equals(pool.TokenAMint):
		aToB = true
	case params.InputTokenMint.Equals(pool.TokenBMint):
		aToB = false
	default:
		return QuoteResult{}, fmt.Errorf("input mint %s is not in pool: %w", params.InputTokenMint, shared.ErrInvalidParameters)
	}

	currentPoint, err := pool.CurrentPoint(params.CurrentTimestamp, params.CurrentSlot)
	if err != nil {
		return QuoteResult{}, err
	}
	if !pool.IsSwapEnabled(currentPoint) {
		return QuoteResult{}, fmt.Errorf("get quote: pool %s disabled or not active at %d: %w", pool.Address, currentPoint, shared.ErrPoolDisabled)
	}

	in := helpers.CalculateTransferFeeExcludedAmount(params.InAmount, params.InputTokenInfo, params.CurrentEpoch)
	result, err := QuoteExactIn(pool, params.Config, aToB, params.CurrentTimestamp, params.CurrentSlot, in.Amount, params.HasReferral)
	if err != nil {
		return QuoteResult{}, err
	}
	out := helpers.CalculateTransferFeeExcludedAmount(result.OutputAmount, params.OutputTokenInfo, params.CurrentEpoch)

	minOut, err := helpers.GetAmountWithSlippage(out.Amount, params.Slippage)
	if err != nil {
		return QuoteResult{}, err
	}

	return QuoteResult{
		SwapInAmount:      params.InAmount,
		ConsumedInAmount:  in.Amount,
		SwapOutAmount:     out.Amount,
		MinSwapOutAmount:  minOut,
		TotalFee:          result.TotalFee(),
		InputTransferFee:  in.TransferFee,
		OutputTransferFee: out.TransferFee,
		SwapResult:        result,
		PriceImpact:       helpers.GetPriceChange(result.NextSqrtPrice, pool.SqrtPrice),
		SpotPrice:         math.GetPriceFromSqrtPrice(pool.SqrtPrice, params.TokenADecimal, params.TokenBDecimal),
		NextPrice:         math.GetPriceFromSqrtPrice(result.NextSqrtPrice, params.TokenADecimal, params.TokenBDecimal),
	}, nil
}
