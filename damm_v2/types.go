package dammv2

import (
	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/meteora-quote/damm_v2/helpers"
	"github.com/krazyTry/meteora-quote/damm_v2/math/pool_fees"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
)

// Enums.
type Rounding = shared.Rounding

const (
	RoundingUp   = shared.RoundingUp
	RoundingDown = shared.RoundingDown
)

type CollectFeeMode = shared.CollectFeeMode

const (
	CollectFeeModeBothToken = shared.CollectFeeModeBothToken
	CollectFeeModeOnlyB     = shared.CollectFeeModeOnlyB
)

type TradeDirection = shared.TradeDirection

const (
	TradeDirectionAtoB = shared.TradeDirectionAtoB
	TradeDirectionBtoA = shared.TradeDirectionBtoA
)

type ActivationType = shared.ActivationType

const (
	ActivationTypeSlot      = shared.ActivationTypeSlot
	ActivationTypeTimestamp = shared.ActivationTypeTimestamp
)

type PoolStatus = shared.PoolStatus

const (
	PoolStatusEnable  = shared.PoolStatusEnable
	PoolStatusDisable = shared.PoolStatusDisable
)

type FeeTreatment = shared.FeeTreatment

const (
	FeeApplied = shared.FeeApplied
	FeeSkipped = shared.FeeSkipped
)

type PoolFees = pool_fees.PoolFees

type BaseFee = pool_fees.BaseFee

type DynamicFee = pool_fees.DynamicFee

type FeeOnAmountResult = pool_fees.FeeOnAmountResult

type TokenInfo = helpers.TokenInfo

// Pool is the snapshot of a cp-amm pool that quoting reads. ActivationType and
// CollectFeeMode keep their on-chain byte encoding and are checked on use.
type Pool struct {
	Address    solanago.PublicKey
	TokenAMint solanago.PublicKey
	TokenBMint solanago.PublicKey
	Partner    solanago.PublicKey

	PoolFees PoolFees

	Liquidity    binary.Uint128
	SqrtMinPrice binary.Uint128
	SqrtMaxPrice binary.Uint128
	SqrtPrice    binary.Uint128

	ActivationPoint uint64
	ActivationType  uint8
	PoolStatus      uint8
	CollectFeeMode  uint8
}

// Config is the pool-wide configuration account. Quoting accepts it for
// parity with the on-chain handler but reads nothing from it.
type Config struct {
	Address        solanago.PublicKey
	PoolCreator    solanago.PublicKey
	PoolFees       PoolFees
	SqrtMinPrice   binary.Uint128
	SqrtMaxPrice   binary.Uint128
	ActivationType uint8
	CollectFeeMode uint8
}

// SwapResult carries the same fields as the swap_result of an EvtSwap.
type SwapResult struct {
	OutputAmount  uint64
	NextSqrtPrice binary.Uint128
	LpFee         uint64
	ProtocolFee   uint64
	PartnerFee    uint64
	ReferralFee   uint64
}

func (r SwapResult) TotalFee() uint64 {
	return r.LpFee + r.ProtocolFee + r.PartnerFee + r.ReferralFee
}

// GetQuoteParams describes one exact-in quote with slippage and token-2022
// transfer fees taken into account.
type GetQuoteParams struct {
	InAmount         uint64
	InputTokenMint   solanago.PublicKey
	Slippage         uint16
	Pool             *Pool
	Config           *Config
	CurrentTimestamp uint64
	CurrentSlot      uint64
	CurrentEpoch     uint64
	InputTokenInfo   *TokenInfo
	OutputTokenInfo  *TokenInfo
	TokenADecimal    uint8
	TokenBDecimal    uint8
	HasReferral      bool
}

// QuoteResult mirrors getQuote return structure.
type QuoteResult struct {
	SwapInAmount      uint64
	ConsumedInAmount  uint64
	SwapOutAmount     uint64
	MinSwapOutAmount  uint64
	TotalFee          uint64
	InputTransferFee  uint64
	OutputTransferFee uint64
	SwapResult        SwapResult
	PriceImpact       decimal.Decimal
	SpotPrice         decimal.Decimal
	NextPrice         decimal.Decimal
}
