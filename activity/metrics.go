package activity

import (
	"github.com/0xPolygonHermez/zkevm-tx-tracker/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultFinalized = "finalized"
	resultDeposit   = "deposit_confirmed"
	resultIgnored   = "ignored"
	resultUpdated   = "updated"
	resultFilled    = "filled"
)

var (
	updatesReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "activity",
		Name:      "updates_total",
		Help:      "Activity updates reconciled by kind and outcome",
	}, []string{"kind", "result"})

	reconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: "activity",
		Name:      "reconcile_duration_seconds",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)
