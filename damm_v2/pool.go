package dammv2

import (
	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/meteora-quote/damm_v2/helpers"
	"github.com/krazyTry/meteora-quote/damm_v2/math/pool_fees"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
)

// PoolFromAccount converts a decoded Pool account into a quoting snapshot.
func PoolFromAccount(address solanago.PublicKey, account *helpers.PoolAccount) *Pool {
	return &Pool{
		Address:         address,
		TokenAMint:      account.TokenAMint,
		TokenBMint:      account.TokenBMint,
		Partner:         account.Partner,
		PoolFees:        PoolFeesFromStruct(account.PoolFees),
		Liquidity:       account.Liquidity,
		SqrtMinPrice:    account.SqrtMinPrice,
		SqrtMaxPrice:    account.SqrtMaxPrice,
		SqrtPrice:       account.SqrtPrice,
		ActivationPoint: account.ActivationPoint,
		ActivationType:  account.ActivationType,
		PoolStatus:      account.PoolStatus,
		CollectFeeMode:  account.CollectFeeMode,
	}
}

func PoolFeesFromStruct(s helpers.PoolFeesStruct) PoolFees {
	return PoolFees{
		BaseFee: pool_fees.BaseFee{
			CliffFeeNumerator: s.BaseFee.CliffFeeNumerator,
			FeeSchedulerMode:  shared.FeeSchedulerMode(s.BaseFee.FeeSchedulerMode),
			NumberOfPeriod:    s.BaseFee.NumberOfPeriod,
			PeriodFrequency:   s.BaseFee.PeriodFrequency,
			ReductionFactor:   s.BaseFee.ReductionFactor,
		},
		ProtocolFeePercent: s.ProtocolFeePercent,
		PartnerFeePercent:  s.PartnerFeePercent,
		ReferralFeePercent: s.ReferralFeePercent,
		DynamicFee:         pool_fees.DynamicFee(s.DynamicFee),
	}
}

// CurrentPoint picks the slot or the timestamp according to the activation type.
func (p Pool) CurrentPoint(currentTimestamp, currentSlot uint64) (uint64, error) {
	activationType, err := shared.ParseActivationType(p.ActivationType)
	if err != nil {
		return 0, err
	}
	switch activationType {
	case shared.ActivationTypeSlot:
		return currentSlot, nil
	default:
		return currentTimestamp, nil
	}
}

// HasPartner reports whether the pool was created with a partner account.
func (p Pool) HasPartner() bool {
	return !p.Partner.IsZero()
}

// IsSwapEnabled reports whether the pool is enabled and activated at currentPoint.
func (p Pool) IsSwapEnabled(currentPoint uint64) bool {
	return p.PoolStatus == uint8(shared.PoolStatusEnable) && currentPoint >= p.ActivationPoint
}

// UpdatePreSwap returns a copy of the pool whose dynamic fee references have
// been moved to currentTimestamp. The receiver is not modified.
func (p Pool) UpdatePreSwap(currentTimestamp uint64) (Pool, error) {
	if !p.PoolFees.DynamicFee.IsEnabled() {
		return p, nil
	}
	dynamicFee, err := p.PoolFees.DynamicFee.UpdateReferences(p.SqrtPrice, currentTimestamp)
	if err != nil {
		return p, err
	}
	p.PoolFees.DynamicFee = dynamicFee
	return p, nil
}

// UpdatePostSwap returns a copy of the pool after a swap that moved the price
// from oldSqrtPrice to the pool's current sqrt price.
func (p Pool) UpdatePostSwap(oldSqrtPrice binary.Uint128, currentTimestamp uint64) (Pool, error) {
	dynamicFee := p.PoolFees.DynamicFee
	if !dynamicFee.IsEnabled() {
		return p, nil
	}
	next, err := dynamicFee.UpdateVolatilityAccumulator(p.SqrtPrice)
	if err != nil {
		return p, err
	}
	deltaBinID, err := pool_fees.GetDeltaBinID(next.BinStepU128, oldSqrtPrice, p.SqrtPrice)
	if err != nil {
		return p, err
	}
	if !deltaBinID.IsZero() {
		next.LastUpdateTimestamp = currentTimestamp
	}
	p.PoolFees.DynamicFee = next
	return p, nil
}

// ApplySwapResult returns the pool as it would look after executing result,
// so consecutive quotes can be chained against one snapshot.
func (p Pool) ApplySwapResult(result SwapResult, currentTimestamp uint64) (Pool, error) {
	old := p.SqrtPrice
	p.SqrtPrice = result.NextSqrtPrice
	return p.UpdatePostSwap(old, currentTimestamp)
}
