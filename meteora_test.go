package meteora

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dammV2 "github.com/krazyTry/meteora-quote/damm_v2"
	"github.com/krazyTry/meteora-quote/u128"
)

func TestQuoteExactIn(t *testing.T) {
	pool := &dammV2.Pool{
		Liquidity:      u128.MustFromString("18446744073709551616000000000000"),
		SqrtMinPrice:   dammV2.MinSqrtPrice,
		SqrtMaxPrice:   dammV2.MaxSqrtPrice,
		SqrtPrice:      u128.New(0, 1),
		ActivationType: uint8(dammV2.ActivationTypeTimestamp),
	}
	pool.PoolFees.BaseFee.CliffFeeNumerator = 2_500_000

	want, err := QuoteExactIn(pool, nil, true, 0, 0, 1_000_000, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(997_499), want.OutputAmount)

	got, err := NewQuoter().QuoteExactIn(pool, nil, true, 0, 0, 1_000_000, false)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
