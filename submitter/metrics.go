package submitter

import (
	"github.com/0xPolygonHermez/zkevm-tx-tracker/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var submissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: metrics.Namespace,
	Subsystem: "submitter",
	Name:      "submissions_total",
}, []string{"kind", "status"})

func submissionKind(p Params) string {
	switch {
	case p.IsCancellation:
		return "cancel"
	case p.IsRemoveDelegation:
		return "remove_delegation"
	default:
		return "send"
	}
}

func observeSubmission(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	submissions.WithLabelValues(kind, status).Inc()
}
