package replacer

import (
	"github.com/0xPolygonHermez/zkevm-tx-tracker/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var replacements = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: metrics.Namespace,
	Subsystem: "replacer",
	Name:      "replacements_total",
}, []string{"kind", "status"})

func observeReplacement(isCancellation bool, err error) {
	kind := "speed_up"
	if isCancellation {
		kind = "cancel"
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	replacements.WithLabelValues(kind, status).Inc()
}
