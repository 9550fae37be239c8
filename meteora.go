package meteora

import (
	dammV2 "github.com/krazyTry/meteora-quote/damm_v2"
)

// NewQuoter creates a DAMM v2 quoter.
//
// Example:
//
// quoter := NewQuoter(dammv2.WithLogger(logger), dammv2.WithMetrics(prometheus.DefaultRegisterer))
//
// quoter.QuoteExactIn(pool, nil, true, currentTimestamp, currentSlot, amountIn, false)
var NewQuoter = dammV2.NewQuoter

// QuoteExactIn quotes an exact-in swap against a DAMM v2 pool snapshot
// without logging or metrics.
//
// Example:
//
// result, _ := QuoteExactIn(pool, nil, true, currentTimestamp, currentSlot, amountIn, false)
var QuoteExactIn = dammV2.QuoteExactIn

// GetQuote quotes a swap including token-2022 transfer fees and slippage.
var GetQuote = dammV2.GetQuote
