package shared

import "fmt"

// Enums and common types shared by math, math/pool_fees and dammv2.
type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

func (r Rounding) String() string {
	switch r {
	case RoundingUp:
		return "Up"
	case RoundingDown:
		return "Down"
	default:
		return fmt.Sprintf("Rounding(%d)", uint8(r))
	}
}

type FeeSchedulerMode uint8

const (
	FeeSchedulerModeLinear      FeeSchedulerMode = 0
	FeeSchedulerModeExponential FeeSchedulerMode = 1
)

// CollectFeeMode is stored as a single byte on the pool account.
type CollectFeeMode uint8

const (
	CollectFeeModeBothToken CollectFeeMode = 0
	CollectFeeModeOnlyB     CollectFeeMode = 1
)

func (m CollectFeeMode) String() string {
	switch m {
	case CollectFeeModeBothToken:
		return "BothToken"
	case CollectFeeModeOnlyB:
		return "OnlyB"
	default:
		return fmt.Sprintf("CollectFeeMode(%d)", uint8(m))
	}
}

// ParseCollectFeeMode converts the account byte into a CollectFeeMode.
func ParseCollectFeeMode(v uint8) (CollectFeeMode, error) {
	switch CollectFeeMode(v) {
	case CollectFeeModeBothToken, CollectFeeModeOnlyB:
		return CollectFeeMode(v), nil
	default:
		return 0, fmt.Errorf("collect fee mode %d: %w", v, ErrInvalidCollectFeeMode)
	}
}

type TradeDirection uint8

const (
	TradeDirectionAtoB TradeDirection = 0
	TradeDirectionBtoA TradeDirection = 1
)

func (d TradeDirection) String() string {
	switch d {
	case TradeDirectionAtoB:
		return "AtoB"
	case TradeDirectionBtoA:
		return "BtoA"
	default:
		return fmt.Sprintf("TradeDirection(%d)", uint8(d))
	}
}

func TradeDirectionFromAForB(aForB bool) TradeDirection {
	if aForB {
		return TradeDirectionAtoB
	}
	return TradeDirectionBtoA
}

// ActivationType selects the clock a pool is activated against.
type ActivationType uint8

const (
	ActivationTypeSlot      ActivationType = 0
	ActivationTypeTimestamp ActivationType = 1
)

func (a ActivationType) String() string {
	switch a {
	case ActivationTypeSlot:
		return "Slot"
	case ActivationTypeTimestamp:
		return "Timestamp"
	default:
		return fmt.Sprintf("ActivationType(%d)", uint8(a))
	}
}

func ParseActivationType(v uint8) (ActivationType, error) {
	switch ActivationType(v) {
	case ActivationTypeSlot, ActivationTypeTimestamp:
		return ActivationType(v), nil
	default:
		return 0, fmt.Errorf("activation type %d: %w", v, ErrInvalidActivationType)
	}
}

type PoolStatus uint8

const (
	PoolStatusEnable  PoolStatus = 0
	PoolStatusDisable PoolStatus = 1
)

// FeeTreatment tells a curve step whether the trading fee is taken on its output.
type FeeTreatment uint8

const (
	FeeApplied FeeTreatment = iota
	FeeSkipped
)

func (f FeeTreatment) String() string {
	if f == FeeSkipped {
		return "Skipped"
	}
	return "Applied"
}

const (
	BasisPointMax  = 10_000
	FeeDenominator = 1_000_000_000

	MinFeeNumerator = 100_000
	MaxFeeBps       = 5000
	MaxFeeNumerator = 500_000_000

	// protocol, partner and referral shares are percentages
	MaxFeePercent = 100

	ScaleOffset    = 64
	ResolutionBits = ScaleOffset * 2
	MaxExponential = 0x80000
	U16Max         = 65535

	DynamicFeeFilterPeriodDefault    = 10
	DynamicFeeDecayPeriodDefault     = 120
	DynamicFeeReductionFactorDefault = 5000
	BinStepBpsDefault                = 1
	MaxPriceChangeBpsDefault         = 1500

	DynamicFeeScalingFactor  = 100_000_000_000
	DynamicFeeRoundingOffset = 99_999_999_999
)

// Q64.64 bounds of the sqrt price, as decimal strings.
const (
	MinSqrtPrice = "4295048016"
	MaxSqrtPrice = "79226673521066979257578248091"

	BinStepBpsU128Default = "1844674407370955"
)
