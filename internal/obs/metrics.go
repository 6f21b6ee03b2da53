package obs

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the gatekeeper's prometheus instruments. NewMetrics
// registers on the default registry, so it must be called at most once
// per process; services treat a nil *Metrics as a no-op sink.
type Metrics struct {
	LocateTotal     *prometheus.CounterVec // outcome=pass|reject, code=reject code or ""
	AllocLatencyMS  prometheus.Histogram
	SharesAllocated prometheus.Counter
	LedgerRecords   prometheus.Counter
	LendableShares  prometheus.GaugeFunc
}

// NewMetrics builds and registers the instrument set. lendableShares is
// sampled at scrape time for the pool-size gauge; it may be nil.
func NewMetrics(lendableShares func() float64) *Metrics {
	m := &Metrics{
		LocateTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "locate_requests_total",
				Help: "Total locate requests by outcome and reject code",
			},
			[]string{"outcome", "code"},
		),
		AllocLatencyMS: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "locate_op_latency_ms",
				Help:    "Latency of gatekeeper passes (ms)",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10µs .. ~80ms
			},
		),
		SharesAllocated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "locate_shares_allocated_total",
			Help: "Total shares reserved by successful locates",
		}),
		LedgerRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "locate_ledger_records_total",
			Help: "Total records appended to the audit ledger",
		}),
	}

	prometheus.MustRegister(
		m.LocateTotal,
		m.AllocLatencyMS,
		m.SharesAllocated,
		m.LedgerRecords,
	)

	if lendableShares != nil {
		m.LendableShares = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "locate_lendable_shares",
			Help: "Current lendable shares across all tickers and lenders",
		}, lendableShares)
		prometheus.MustRegister(m.LendableShares)
	}

	return m
}

// ObserveOutcome records one gatekeeper pass. code is empty for a PASS.
func (m *Metrics) ObserveOutcome(passed bool, code string, shares int64, latencyMS float64) {
	if m == nil {
		return
	}
	outcome := "reject"
	if passed {
		outcome = "pass"
		m.SharesAllocated.Add(float64(shares))
		m.LedgerRecords.Inc()
	}
	m.LocateTotal.WithLabelValues(outcome, code).Inc()
	m.AllocLatencyMS.Observe(latencyMS)
}
