package dammv2

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/krazyTry/meteora-quote/damm_v2/shared"
)

func TestQuoterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	q := NewQuoter(WithMetrics(reg))

	_, err := q.QuoteExactIn(testPool(), nil, true, 0, 0, 1_000_000, false)
	require.NoError(t, err)
	_, err = q.QuoteExactIn(testPool(), nil, true, 0, 0, 0, false)
	require.ErrorIs(t, err, shared.ErrAmountIsZero)
	_, err = q.QuoteExactIn(testPool(), nil, true, 0, 0, 0, false)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(q.metrics.Quotes.WithLabelValues("AtoB", "BothToken")))
	assert.Equal(t, 0.0, testutil.ToFloat64(q.metrics.Quotes.WithLabelValues("BtoA", "BothToken")))
	assert.Equal(t, 2.0, testutil.ToFloat64(q.metrics.QuoteErrors.WithLabelValues("6041")))
	assert.Equal(t, 1, testutil.CollectAndCount(q.metrics.QuoteDuration))
}

func TestQuoterLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	q := NewQuoter(WithLogger(zap.New(core)))

	pool := testPool()
	_, err := q.QuoteExactIn(pool, nil, false, 0, 0, 2_000_000_000_000, false)
	require.ErrorIs(t, err, shared.ErrPriceRangeViolation)

	failed := logs.FilterMessage("quote failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	fields := failed[0].ContextMap()
	assert.Equal(t, "6055", fields["code"])
	assert.Equal(t, "BtoA", fields["direction"])
	assert.Equal(t, uint64(2_000_000_000_000), fields["amount_in"])
}

func TestQuoterGetQuote(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	q := NewQuoter(WithLogger(zap.New(core)), WithMetrics(reg))

	got, err := q.GetQuote(quoteParams())
	require.NoError(t, err)
	assert.Equal(t, uint64(997_499), got.SwapOutAmount)

	assert.Equal(t, 1, logs.FilterMessage("quote").Len())
	assert.Equal(t, 1, logs.FilterMessage("quote adjusted").Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(q.metrics.Quotes.WithLabelValues("AtoB", "BothToken")))
}

func TestQuoterReplaySwapEvent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	q := NewQuoter(WithLogger(zap.New(core)))

	pool := testPool()
	evt := emittedSwap(pool.Address)
	_, err := q.ReplaySwapEvent(pool, nil, evt, 0)
	require.NoError(t, err)
	assert.Zero(t, logs.Len())

	evt.SwapResult.LpFee = 1
	_, err = q.ReplaySwapEvent(pool, nil, evt, 0)
	require.ErrorIs(t, err, ErrSwapEventMismatch)
	assert.Equal(t, 1, logs.FilterMessage("swap event does not replay").Len())
}

func TestNewQuoterDefaults(t *testing.T) {
	q := NewQuoter(WithLogger(nil))
	require.NotNil(t, q.logger)
	assert.Nil(t, q.metrics)

	_, err := q.QuoteExactIn(testPool(), nil, true, 0, 0, 1, false)
	require.NoError(t, err)
}
