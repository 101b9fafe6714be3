package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.ObservePosted("IN", 10, 5*time.Millisecond)
	m.ObservePosted("OUT", 3, 5*time.Millisecond)
	m.ObservePosted("OUT", 2, 5*time.Millisecond)
	m.IncRejected("INSUFFICIENT_STOCK")
	m.IncRejected("")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.posted.WithLabelValues("IN")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.posted.WithLabelValues("OUT")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.quantity.WithLabelValues("OUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("INSUFFICIENT_STOCK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("unknown")))

	count, err := testutil.GatherAndCount(reg, "inventory_transactions_posted_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLedgerMetrics_NilSafe(t *testing.T) {
	var m *LedgerMetrics
	assert.NotPanics(t, func() {
		m.ObservePosted("IN", 1, time.Millisecond)
		m.IncRejected("NOT_FOUND")
	})

	empty := NewLedgerMetrics(nil)
	assert.NotPanics(t, func() { empty.ObservePosted("IN", 1, time.Millisecond) })
}
