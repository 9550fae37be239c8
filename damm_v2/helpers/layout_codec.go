package helpers

import (
	"bytes"
	"errors"
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/meteora-quote/u128"
)

var ErrDiscriminatorMismatch = errors.New("discriminator mismatch")

// layoutReader keeps the first decode error so field lists read top to bottom.
type layoutReader struct {
	dec *binary.Decoder
	err error
}

func (r *layoutReader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	var v uint8
	v, r.err = r.dec.ReadUint8()
	return v
}

func (r *layoutReader) boolean() bool {
	if r.err != nil {
		return false
	}
	var v bool
	v, r.err = r.dec.ReadBool()
	return v
}

func (r *layoutReader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	var v uint16
	v, r.err = r.dec.ReadUint16(binary.LE)
	return v
}

func (r *layoutReader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	var v uint32
	v, r.err = r.dec.ReadUint32(binary.LE)
	return v
}

func (r *layoutReader) u64() uint64 {
	if r.err != nil {
		return 0
	}
	var v uint64
	v, r.err = r.dec.ReadUint64(binary.LE)
	return v
}

func (r *layoutReader) u128() binary.Uint128 {
	if r.err != nil {
		return binary.Uint128{}
	}
	v, err := r.dec.ReadUint128(binary.LE)
	r.err = err
	return u128.New(v.Lo, v.Hi)
}

func (r *layoutReader) pubkey() solanago.PublicKey {
	if r.err != nil {
		return solanago.PublicKey{}
	}
	var v solanago.PublicKey
	v, r.err = readPubkey(r.dec)
	return v
}

func (r *layoutReader) skip(n uint) {
	if r.err != nil {
		return
	}
	r.err = r.dec.SkipBytes(n)
}

func readPubkey(decoder *binary.Decoder) (solanago.PublicKey, error) {
	b, err := decoder.ReadNBytes(PubkeySize)
	if err != nil {
		return solanago.PublicKey{}, err
	}
	return solanago.PublicKeyFromBytes(b), nil
}

func (obj *BaseFeeStruct) UnmarshalWithDecoder(decoder *binary.Decoder) error {
	r := &layoutReader{dec: decoder}
	obj.decode(r)
	return r.err
}

func (obj *BaseFeeStruct) decode(r *layoutReader) {
	obj.CliffFeeNumerator = r.u64()
	obj.FeeSchedulerMode = r.u8()
	r.skip(5)
	obj.NumberOfPeriod = r.u16()
	obj.PeriodFrequency = r.u64()
	obj.ReductionFactor = r.u64()
	r.skip(8)
}

func (obj *DynamicFeeStruct) UnmarshalWithDecoder(decoder *binary.Decoder) error {
	r := &layoutReader{dec: decoder}
	obj.decode(r)
	return r.err
}

func (obj *DynamicFeeStruct) decode(r *layoutReader) {
	obj.Initialized = r.u8()
	r.skip(7)
	obj.MaxVolatilityAccumulator = r.u32()
	obj.VariableFeeControl = r.u32()
	obj.BinStep = r.u16()
	obj.FilterPeriod = r.u16()
	obj.DecayPeriod = r.u16()
	obj.ReductionFactor = r.u16()
	obj.LastUpdateTimestamp = r.u64()
	obj.BinStepU128 = r.u128()
	obj.SqrtPriceReference = r.u128()
	obj.VolatilityAccumulator = r.u128()
	obj.VolatilityReference = r.u128()
}

func (obj *PoolFeesStruct) UnmarshalWithDecoder(decoder *binary.Decoder) error {
	r := &layoutReader{dec: decoder}
	obj.decode(r)
	return r.err
}

func (obj *PoolFeesStruct) decode(r *layoutReader) {
	obj.BaseFee.decode(r)
	obj.ProtocolFeePercent = r.u8()
	obj.PartnerFeePercent = r.u8()
	obj.ReferralFeePercent = r.u8()
	r.skip(5)
	obj.DynamicFee.decode(r)
	r.skip(16)
}

// UnmarshalWithDecoder expects the decoder to be positioned after the discriminator.
func (obj *PoolAccount) UnmarshalWithDecoder(decoder *binary.Decoder) error {
	r := &layoutReader{dec: decoder}
	obj.PoolFees.decode(r)
	obj.TokenAMint = r.pubkey()
	obj.TokenBMint = r.pubkey()
	obj.TokenAVault = r.pubkey()
	obj.TokenBVault = r.pubkey()
	obj.WhitelistedVault = r.pubkey()
	obj.Partner = r.pubkey()
	obj.Liquidity = r.u128()
	obj.TokenAReserve = r.u64()
	obj.TokenBReserve = r.u64()
	obj.ProtocolAFee = r.u64()
	obj.ProtocolBFee = r.u64()
	obj.PartnerAFee = r.u64()
	obj.PartnerBFee = r.u64()
	obj.SqrtMinPrice = r.u128()
	obj.SqrtMaxPrice = r.u128()
	obj.SqrtPrice = r.u128()
	obj.ActivationPoint = r.u64()
	obj.ActivationType = r.u8()
	obj.PoolStatus = r.u8()
	obj.TokenAFlag = r.u8()
	obj.TokenBFlag = r.u8()
	obj.CollectFeeMode = r.u8()
	obj.PoolType = r.u8()
	return r.err
}

// UnmarshalWithDecoder expects the decoder to be positioned after the discriminator.
func (obj *EvtSwap) UnmarshalWithDecoder(decoder *binary.Decoder) error {
	r := &layoutReader{dec: decoder}
	obj.Pool = r.pubkey()
	obj.TradeDirection = r.u8()
	obj.IsReferral = r.boolean()
	obj.Params.AmountIn = r.u64()
	obj.Params.MinimumAmountOut = r.u64()
	obj.SwapResult.OutputAmount = r.u64()
	obj.SwapResult.NextSqrtPrice = r.u128()
	obj.SwapResult.LpFee = r.u64()
	obj.SwapResult.ProtocolFee = r.u64()
	obj.SwapResult.PartnerFee = r.u64()
	obj.SwapResult.ReferralFee = r.u64()
	obj.TransferFeeExcludedAmountIn = r.u64()
	obj.CurrentTimestamp = r.u64()
	return r.err
}

func checkDiscriminator(data []byte, want [DiscriminatorSize]byte, key string) error {
	if len(data) < DiscriminatorSize {
		return fmt.Errorf("decode %s: %d bytes: %w", key, len(data), ErrDiscriminatorMismatch)
	}
	if !bytes.Equal(data[:DiscriminatorSize], want[:]) {
		return fmt.Errorf("decode %s: got %v: %w", key, data[:DiscriminatorSize], ErrDiscriminatorMismatch)
	}
	return nil
}

// DecodePoolAccount decodes raw Pool account data including its discriminator.
func DecodePoolAccount(data []byte) (*PoolAccount, error) {
	if err := checkDiscriminator(data, PoolDiscriminator, AccountKeyPool); err != nil {
		return nil, err
	}
	out := new(PoolAccount)
	if err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data[DiscriminatorSize:])); err != nil {
		return nil, fmt.Errorf("decode %s: %w", AccountKeyPool, err)
	}
	return out, nil
}

// DecodeEvtSwap decodes swap event data including its discriminator.
func DecodeEvtSwap(data []byte) (*EvtSwap, error) {
	if err := checkDiscriminator(data, EvtSwapDiscriminator, EventKeySwap); err != nil {
		return nil, err
	}
	out := new(EvtSwap)
	if err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data[DiscriminatorSize:])); err != nil {
		return nil, fmt.Errorf("decode %s: %w", EventKeySwap, err)
	}
	return out, nil
}
