package dammv2

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are registered on the Registerer handed to WithMetrics, so several
// quoters can coexist in one process with separate registries.
type Metrics struct {
	Quotes        *prometheus.CounterVec
	QuoteErrors   *prometheus.CounterVec
	QuoteDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Quotes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dammv2_quotes_total",
				Help: "Total number of successful exact-in quotes",
			},
			[]string{"direction", "collect_fee_mode"},
		),
		QuoteErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dammv2_quote_errors_total",
				Help: "Total number of failed quotes by program error code",
			},
			[]string{"code"},
		),
		QuoteDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dammv2_quote_duration_seconds",
			Help:    "Exact-in quote duration in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}),
	}
}
