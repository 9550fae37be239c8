package dammv2

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/krazyTry/meteora-quote/damm_v2/helpers"
	"github.com/krazyTry/meteora-quote/damm_v2/shared"
	"github.com/krazyTry/meteora-quote/u128"
)

// Quoter wraps the pure quoting functions with logging and metrics. It holds
// no pool state and is safe for concurrent use.
type Quoter struct {
	logger  *zap.Logger
	metrics *Metrics
}

type Option func(*Quoter)

func WithLogger(logger *zap.Logger) Option {
	return func(q *Quoter) {
		if logger != nil {
			q.logger = logger
		}
	}
}

func WithMetrics(reg prometheus.Registerer) Option {
	return func(q *Quoter) {
		q.metrics = NewMetrics(reg)
	}
}

func NewQuoter(opts ...Option) *Quoter {
	q := &Quoter{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Quoter) QuoteExactIn(pool *Pool, config *Config, aForB bool, currentTimestamp, currentSlot, amountIn uint64, isReferral bool) (SwapResult, error) {
	start := time.Now()
	result, err := QuoteExactIn(pool, config, aForB, currentTimestamp, currentSlot, amountIn, isReferral)
	q.observe(pool, shared.TradeDirectionFromAForB(aForB), amountIn, result, err, time.Since(start))
	return result, err
}

func (q *Quoter) GetQuote(params GetQuoteParams) (QuoteResult, error) {
	start := time.Now()
	quote, err := GetQuote(params)
	direction := shared.TradeDirectionBtoA
	if params.Pool != nil && params.InputTokenMint.Equals(params.Pool.TokenAMint) {
		direction = shared.TradeDirectionAtoB
	}
	q.observe(params.Pool, direction, params.InAmount, quote.SwapResult, err, time.Since(start))
	if err == nil {
		q.logger.Debug("quote adjusted",
			zap.Uint64("swap_in", quote.SwapInAmount),
			zap.Uint64("input_transfer_fee", quote.InputTransferFee),
			zap.Uint64("output_transfer_fee", quote.OutputTransferFee),
			zap.Uint64("min_out", quote.MinSwapOutAmount),
			zap.String("price_impact", quote.PriceImpact.StringFixed(6)),
		)
	}
	return quote, err
}

// ReplaySwapEvent re-quotes an emitted swap and logs any mismatch at Warn.
func (q *Quoter) ReplaySwapEvent(pool *Pool, config *Config, evt *helpers.EvtSwap, currentSlot uint64) (SwapResult, error) {
	result, err := ReplaySwapEvent(pool, config, evt, currentSlot)
	if err != nil {
		q.logger.Warn("swap event does not replay", zap.Error(err))
	}
	return result, err
}

func (q *Quoter) observe(pool *Pool, direction shared.TradeDirection, amountIn uint64, result SwapResult, err error, elapsed time.Duration) {
	var (
		address        string
		collectFeeMode string
	)
	if pool != nil {
		address = pool.Address.String()
		collectFeeMode = shared.CollectFeeMode(pool.CollectFeeMode).String()
	}

	if err != nil {
		code := "unknown"
		if c, ok := shared.CodeOf(err); ok {
			code = strconv.FormatUint(uint64(c), 10)
		}
		q.logger.Warn("quote failed",
			zap.String("pool", address),
			zap.Stringer("direction", direction),
			zap.Uint64("amount_in", amountIn),
			zap.String("code", code),
			zap.Error(err),
		)
		if q.metrics != nil {
			q.metrics.QuoteErrors.WithLabelValues(code).Inc()
		}
		return
	}

	q.logger.Debug("quote",
		zap.String("pool", address),
		zap.Stringer("direction", direction),
		zap.Uint64("amount_in", amountIn),
		zap.Uint64("output", result.OutputAmount),
		zap.String("next_sqrt_price", u128.String(result.NextSqrtPrice)),
		zap.Uint64("lp_fee", result.LpFee),
		zap.Uint64("protocol_fee", result.ProtocolFee),
		zap.Uint64("partner_fee", result.PartnerFee),
		zap.Uint64("referral_fee", result.ReferralFee),
	)
	if q.metrics != nil {
		q.metrics.Quotes.WithLabelValues(direction.String(), collectFeeMode).Inc()
		q.metrics.QuoteDuration.Observe(elapsed.Seconds())
	}
}
