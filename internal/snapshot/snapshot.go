package snapshot

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/tidwall/gjson"

	dammv2 "github.com/krazyTry/meteora-quote/damm_v2"
	"github.com/krazyTry/meteora-quote/damm_v2/helpers"
	"github.com/krazyTry/meteora-quote/damm_v2/math/pool_fees"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// accountPaths are tried in order to find raw account data, covering a full
// getAccountInfo response, its result, and a bare account object.
var accountPaths = []string{"result.value", "value", "account", "@this"}

// LoadPool reads a pool snapshot from a JSON file.
func LoadPool(path string) (*dammv2.Pool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool snapshot: %w", err)
	}
	return ParsePool(raw)
}

// ParsePool accepts either a getAccountInfo style document carrying base64 or
// base58 Pool account data, or an object listing the pool fields directly.
// Integers wider than 53 bits must be given as strings.
func ParsePool(raw []byte) (*dammv2.Pool, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: malformed json", ErrInvalidSnapshot)
	}
	doc := gjson.ParseBytes(raw)

	address, err := optionalKey(doc, "address", "pubkey", "result.pubkey")
	if err != nil {
		return nil, err
	}

	if data, ok, err := accountData(doc); err != nil {
		return nil, err
	} else if ok {
		account, err := helpers.DecodePoolAccount(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
		return dammv2.PoolFromAccount(address, account), nil
	}

	fields := doc
	if pool := doc.Get("pool"); pool.IsObject() {
		fields = pool
	}
	pool, err := poolFromFields(fields)
	if err != nil {
		return nil, err
	}
	pool.Address = address
	if pool.Address.IsZero() {
		config, err := optionalKey(doc, "config")
		if err != nil {
			return nil, err
		}
		if !config.IsZero() {
			if pool.Address, err = dammv2.DerivePoolAddress(config, pool.TokenAMint, pool.TokenBMint); err != nil {
				return nil, fmt.Errorf("derive pool address: %w", err)
			}
		}
	}
	return pool, nil
}

// LoadMint reads a mint account snapshot from a JSON file.
func LoadMint(path string) (*helpers.TokenInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mint snapshot: %w", err)
	}
	return ParseMint(raw)
}

// ParseMint decodes decimals and token-2022 extensions from a mint account
// snapshot in getAccountInfo form.
func ParseMint(raw []byte) (*helpers.TokenInfo, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: malformed json", ErrInvalidSnapshot)
	}
	doc := gjson.ParseBytes(raw)
	mint, err := optionalKey(doc, "address", "pubkey", "result.pubkey")
	if err != nil {
		return nil, err
	}
	data, ok, err := accountData(doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no mint account data", ErrInvalidSnapshot)
	}
	info, err := helpers.TokenInfoFromMint(mint, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return info, nil
}

func accountData(doc gjson.Result) ([]byte, bool, error) {
	for _, path := range accountPaths {
		data := doc.Get(path).Get("data")
		if !data.Exists() {
			continue
		}
		encoded, encoding := data.String(), "base64"
		if data.IsArray() {
			encoded, encoding = data.Get("0").String(), data.Get("1").String()
		}
		switch encoding {
		case "base64":
			decoded, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, false, fmt.Errorf("%w: account data: %w", ErrInvalidSnapshot, err)
			}
			return decoded, true, nil
		case "base58":
			decoded, err := base58.Decode(encoded)
			if err != nil {
				return nil, false, fmt.Errorf("%w: account data: %w", ErrInvalidSnapshot, err)
			}
			return decoded, true, nil
		default:
			return nil, false, fmt.Errorf("%w: unsupported account encoding %q", ErrInvalidSnapshot, encoding)
		}
	}
	return nil, false, nil
}

func optionalKey(doc gjson.Result, paths ...string) (solanago.PublicKey, error) {
	for _, path := range paths {
		v := doc.Get(path)
		if v.Type != gjson.String || v.String() == "" {
			continue
		}
		key, err := solanago.PublicKeyFromBase58(v.String())
		if err != nil {
			return solanago.PublicKey{}, fmt.Errorf("%w: %s: %w", ErrInvalidSnapshot, path, err)
		}
		return key, nil
	}
	return solanago.PublicKey{}, nil
}

// fieldReader collects the first error so a snapshot can be read field by
// field without checking after each one.
type fieldReader struct {
	obj gjson.Result
	err error
}

func (r *fieldReader) fail(path string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s: %w", ErrInvalidSnapshot, path, err)
	}
}

func (r *fieldReader) get(path string, required bool) (gjson.Result, bool) {
	v := r.obj.Get(path)
	if !v.Exists() {
		if required {
			r.fail(path, errors.New("missing"))
		}
		return v, false
	}
	return v, true
}

func (r *fieldReader) key(path string, required bool) solanago.PublicKey {
	v, ok := r.get(path, required)
	if !ok {
		return solanago.PublicKey{}
	}
	key, err := solanago.PublicKeyFromBase58(v.String())
	if err != nil {
		r.fail(path, err)
	}
	return key
}

func (r *fieldReader) u128(path string, required bool) binary.Uint128 {
	v, ok := r.get(path, required)
	if !ok {
		return u128.FromUint64(0)
	}
	parsed, err := u128.FromString(v.String())
	if err != nil {
		r.fail(path, err)
	}
	return parsed
}

func (r *fieldReader) uint(path string, bits int) uint64 {
	v, ok := r.get(path, false)
	if !ok {
		return 0
	}
	if v.Type != gjson.Number && v.Type != gjson.String {
		r.fail(path, fmt.Errorf("want integer, got %s", v.Type))
		return 0
	}
	n, err := strconv.ParseUint(v.String(), 10, bits)
	if err != nil {
		r.fail(path, err)
	}
	return n
}

func poolFromFields(obj gjson.Result) (*dammv2.Pool, error) {
	r := &fieldReader{obj: obj}
	pool := &dammv2.Pool{
		TokenAMint:      r.key("tokenAMint", true),
		TokenBMint:      r.key("tokenBMint", true),
		Partner:         r.key("partner", false),
		Liquidity:       r.u128("liquidity", true),
		SqrtMinPrice:    r.u128("sqrtMinPrice", false),
		SqrtMaxPrice:    r.u128("sqrtMaxPrice", false),
		SqrtPrice:       r.u128("sqrtPrice", true),
		ActivationPoint: r.uint("activationPoint", 64),
		ActivationType:  uint8(r.uint("activationType", 8)),
		PoolStatus:      uint8(r.uint("poolStatus", 8)),
		CollectFeeMode:  uint8(r.uint("collectFeeMode", 8)),
		PoolFees:        poolFeesFromFields(r),
	}
	if _, ok := r.get("sqrtMinPrice", false); !ok {
		pool.SqrtMinPrice = dammv2.MinSqrtPrice
	}
	if _, ok := r.get("sqrtMaxPrice", false); !ok {
		pool.SqrtMaxPrice = dammv2.MaxSqrtPrice
	}
	if r.err != nil {
		return nil, r.err
	}
	return pool, nil
}

func poolFeesFromFields(r *fieldReader) dammv2.PoolFees {
	fees := dammv2.PoolFees{
		BaseFee: pool_fees.BaseFee{
			CliffFeeNumerator: r.uint("poolFees.baseFee.cliffFeeNumerator", 64),
			FeeSchedulerMode:  shared.FeeSchedulerMode(r.uint("poolFees.baseFee.feeSchedulerMode", 8)),
			NumberOfPeriod:    uint16(r.uint("poolFees.baseFee.numberOfPeriod", 16)),
			PeriodFrequency:   r.uint("poolFees.baseFee.periodFrequency", 64),
			ReductionFactor:   r.uint("poolFees.baseFee.reductionFactor", 64),
		},
		ProtocolFeePercent: uint8(r.uint("poolFees.protocolFeePercent", 8)),
		PartnerFeePercent:  uint8(r.uint("poolFees.partnerFeePercent", 8)),
		ReferralFeePercent: uint8(r.uint("poolFees.referralFeePercent", 8)),
	}
	if _, ok := r.get("poolFees.dynamicFee", false); !ok {
		return fees
	}
	fees.DynamicFee = pool_fees.DynamicFee{
		Initialized:              uint8(r.uint("poolFees.dynamicFee.initialized", 8)),
		MaxVolatilityAccumulator: uint32(r.uint("poolFees.dynamicFee.maxVolatilityAccumulator", 32)),
		VariableFeeControl:       uint32(r.uint("poolFees.dynamicFee.variableFeeControl", 32)),
		BinStep:                  uint16(r.uint("poolFees.dynamicFee.binStep", 16)),
		FilterPeriod:             uint16(r.uint("poolFees.dynamicFee.filterPeriod", 16)),
		DecayPeriod:              uint16(r.uint("poolFees.dynamicFee.decayPeriod", 16)),
		ReductionFactor:          uint16(r.uint("poolFees.dynamicFee.reductionFactor", 16)),
		LastUpdateTimestamp:      r.uint("poolFees.dynamicFee.lastUpdateTimestamp", 64),
		BinStepU128:              r.u128("poolFees.dynamicFee.binStepU128", false),
		SqrtPriceReference:       r.u128("poolFees.dynamicFee.sqrtPriceReference", false),
		VolatilityAccumulator:    r.u128("poolFees.dynamicFee.volatilityAccumulator", false),
		VolatilityReference:      r.u128("poolFees.dynamicFee.volatilityReference", false),
	}
	return fees
}
