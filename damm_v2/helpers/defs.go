package helpers

import (
	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
)

// On-chain layouts of the cp-amm program. Only the prefix of PoolAccount that
// quoting depends on is decoded; the remainder of the account is skipped.

type BaseFeeStruct struct {
	CliffFeeNumerator uint64
	FeeSchedulerMode  uint8
	NumberOfPeriod    uint16
	PeriodFrequency   uint64
	ReductionFactor   uint64
}

type DynamicFeeStruct struct {
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

type PoolFeesStruct struct {
	BaseFee            BaseFeeStruct
	ProtocolFeePercent uint8
	PartnerFeePercent  uint8
	ReferralFeePercent uint8
	DynamicFee         DynamicFeeStruct
}

type PoolAccount struct {
	PoolFees          PoolFeesStruct
	TokenAMint        solanago.PublicKey
	TokenBMint        solanago.PublicKey
	TokenAVault       solanago.PublicKey
	TokenBVault       solanago.PublicKey
	WhitelistedVault  solanago.PublicKey
	Partner           solanago.PublicKey
	Liquidity         binary.Uint128
	TokenAReserve     uint64
	TokenBReserve     uint64
	ProtocolAFee      uint64
	ProtocolBFee      uint64
	PartnerAFee       uint64
	PartnerBFee       uint64
	SqrtMinPrice      binary.Uint128
	SqrtMaxPrice      binary.Uint128
	SqrtPrice         binary.Uint128
	ActivationPoint   uint64
	ActivationType    uint8
	PoolStatus        uint8
	TokenAFlag        uint8
	TokenBFlag        uint8
	CollectFeeMode    uint8
	PoolType          uint8
}

type SwapParameters struct {
	AmountIn         uint64
	MinimumAmountOut uint64
}

type SwapResultStruct struct {
	OutputAmount  uint64
	NextSqrtPrice binary.Uint128
	LpFee         uint64
	ProtocolFee   uint64
	PartnerFee    uint64
	ReferralFee   uint64
}

type EvtSwap struct {
	Pool                        solanago.PublicKey
	TradeDirection              uint8
	IsReferral                  bool
	Params                      SwapParameters
	SwapResult                  SwapResultStruct
	TransferFeeExcludedAmountIn uint64
	CurrentTimestamp            uint64
}
