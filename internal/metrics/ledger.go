package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records stock postings.
type LedgerMetrics struct {
	posted   *prometheus.CounterVec
	quantity *prometheus.CounterVec
	rejected *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewLedgerMetrics registers the ledger metrics on reg. A nil registerer yields a no-op recorder.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	posted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_transactions_posted_total",
		Help: "Stock transactions committed, by type.",
	}, []string{"type"})
	quantity := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_stock_units_moved_total",
		Help: "Stock units moved by committed transactions, by type.",
	}, []string{"type"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_transactions_rejected_total",
		Help: "Stock transactions rejected before commit, by reason.",
	}, []string{"reason"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_posting_duration_seconds",
		Help:    "Time spent posting a stock transaction.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(posted, quantity, rejected, duration)
	return &LedgerMetrics{
		posted:   posted,
		quantity: quantity,
		rejected: rejected,
		duration: duration,
	}
}

func (m *LedgerMetrics) ObservePosted(txType string, quantity int, elapsed time.Duration) {
	if m == nil || m.posted == nil {
		return
	}
	label := normalizeLabel(txType)
	m.posted.WithLabelValues(label).Inc()
	m.quantity.WithLabelValues(label).Add(float64(quantity))
	m.duration.Observe(elapsed.Seconds())
}

func (m *LedgerMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
