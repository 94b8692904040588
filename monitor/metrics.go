package monitor

import (
	"github.com/0xPolygonHermez/zkevm-tx-tracker/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: "monitor",
		Name:      "poll_duration_seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"poller"})

	receiptsChecked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "monitor",
		Name:      "receipts_total",
	}, []string{"chain_id", "result"})

	updatesProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "monitor",
		Name:      "updates_total",
	}, []string{"poller"})
)
