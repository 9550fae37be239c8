package snapshot

import (
	"encoding/base64"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dammv2 "github.com/krazyTry/meteora-quote/damm_v2"
	"github.com/krazyTry/meteora-quote/damm_v2/helpers"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

const fieldPool = `{
  "config": "8CNy9goNQNLM4wtgRw528tUQGMKD3vSuFRZY2gLGLLvF",
  "pool": {
    "tokenAMint": "So11111111111111111111111111111111111111112",
    "tokenBMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
    "liquidity": "18446744073709551616000000000000",
    "sqrtPrice": "18446744073709551616",
    "activationPoint": 1700000000,
    "activationType": 1,
    "collectFeeMode": 1,
    "poolFees": {
      "baseFee": {"cliffFeeNumerator": 2500000},
      "protocolFeePercent": 20,
      "referralFeePercent": 20,
      "dynamicFee": {
        "initialized": 1,
        "maxVolatilityAccumulator": 14460000,
        "variableFeeControl": 239,
        "binStep": 1,
        "filterPeriod": 10,
        "decayPeriod": 120,
        "reductionFactor": 5000,
        "lastUpdateTimestamp": "1700000000",
        "binStepU128": "1844674407370955",
        "sqrtPriceReference": "18446744073709551616",
        "volatilityAccumulator": "0",
        "volatilityReference": "0"
      }
    }
  }
}`

func TestParsePoolFields(t *testing.T) {
	pool, err := ParsePool([]byte(fieldPool))
	require.NoError(t, err)

	assert.Equal(t, solanago.SolMint, pool.TokenAMint)
	assert.Equal(t, u128.New(0, 1), pool.SqrtPrice)
	assert.Equal(t, dammv2.MinSqrtPrice, pool.SqrtMinPrice)
	assert.Equal(t, dammv2.MaxSqrtPrice, pool.SqrtMaxPrice)
	assert.Equal(t, uint64(1_700_000_000), pool.ActivationPoint)
	assert.Equal(t, uint8(shared.CollectFeeModeOnlyB), pool.CollectFeeMode)
	assert.Equal(t, uint64(2_500_000), pool.PoolFees.BaseFee.CliffFeeNumerator)
	assert.True(t, pool.PoolFees.DynamicFee.IsEnabled())
	assert.Equal(t, uint32(239), pool.PoolFees.DynamicFee.VariableFeeControl)
	assert.Equal(t, uint64(1_700_000_000), pool.PoolFees.DynamicFee.LastUpdateTimestamp)
	require.NoError(t, pool.Validate())

	config := solanago.MustPublicKeyFromBase58("8CNy9goNQNLM4wtgRw528tUQGMKD3vSuFRZY2gLGLLvF")
	want, err := dammv2.DerivePoolAddress(config, pool.TokenAMint, pool.TokenBMint)
	require.NoError(t, err)
	assert.Equal(t, want, pool.Address)

	_, err = dammv2.QuoteExactIn(pool, nil, true, 1_700_000_005, 0, 1_000_000, false)
	require.NoError(t, err)
}

func TestParsePoolExplicitAddress(t *testing.T) {
	address := solanago.NewWallet().PublicKey()
	doc := `{"address":"` + address.String() + `","tokenAMint":"So11111111111111111111111111111111111111112",` +
		`"tokenBMint":"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v","liquidity":"1000","sqrtPrice":"18446744073709551616"}`
	pool, err := ParsePool([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, address, pool.Address)
	assert.False(t, pool.PoolFees.DynamicFee.IsEnabled())
}

func TestParsePoolErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{"pool":`},
		{"missing sqrt price", `{"tokenAMint":"So11111111111111111111111111111111111111112","tokenBMint":"So11111111111111111111111111111111111111112","liquidity":"1"}`},
		{"bad mint", `{"tokenAMint":"nope","tokenBMint":"So11111111111111111111111111111111111111112","liquidity":"1","sqrtPrice":"1"}`},
		{"byte overflow", `{"tokenAMint":"So11111111111111111111111111111111111111112","tokenBMint":"So11111111111111111111111111111111111111112","liquidity":"1","sqrtPrice":"1","collectFeeMode":256}`},
		{"bad u128", `{"tokenAMint":"So11111111111111111111111111111111111111112","tokenBMint":"So11111111111111111111111111111111111111112","liquidity":"-1","sqrtPrice":"1"}`},
		{"wrong discriminator", `{"result":{"value":{"data":["` + base64.StdEncoding.EncodeToString(make([]byte, 64)) + `","base64"]}}}`},
		{"unknown encoding", `{"value":{"data":["abc","base32"]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePool([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func encodeFeeMint(decimals uint8, bps uint16, maximumFee uint64) []byte {
	data := make([]byte, helpers.TokenAccountSize+1, helpers.TokenAccountSize+1+4+108)
	data[44] = decimals
	data[45] = 1
	data[helpers.TokenAccountSize] = 1

	ext := make([]byte, 4+108)
	binary.LittleEndian.PutUint16(ext[0:], helpers.ExtTransferFeeConfig)
	binary.LittleEndian.PutUint16(ext[2:], 108)
	for _, off := range []int{4 + 72, 4 + 90} {
		binary.LittleEndian.PutUint64(ext[off+8:], maximumFee)
		binary.LittleEndian.PutUint16(ext[off+16:], bps)
	}
	return append(data, ext...)
}

func TestParseMint(t *testing.T) {
	data := encodeFeeMint(6, 100, 5_000)

	doc := `{"jsonrpc":"2.0","result":{"context":{"slot":1},"value":{"data":["` +
		base64.StdEncoding.EncodeToString(data) + `","base64"],"owner":"TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"}}}`
	info, err := ParseMint([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, uint8(6), info.Decimals)
	require.NotNil(t, info.TransferFeeConfig)
	assert.Equal(t, uint64(124), info.TransferFeeConfig.FeeForEpoch(0).Fee(12_345))

	doc = `{"address":"So11111111111111111111111111111111111111112","data":["` + base58.Encode(data) + `","base58"]}`
	info, err = ParseMint([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, solanago.SolMint, info.Mint)

	_, err = ParseMint([]byte(`{"value":{}}`))
	require.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestLoadPool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.json")
	require.NoError(t, os.WriteFile(path, []byte(fieldPool), 0o600))

	pool, err := LoadPool(path)
	require.NoError(t, err)
	assert.Equal(t, solanago.SolMint, pool.TokenAMint)

	_, err = LoadPool(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
