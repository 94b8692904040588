package server

import (
	"strconv"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "RPC requests handled by method and error code, 0 is success",
	}, []string{"method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: "rpc",
		Name:      "request_duration_seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func observeRequest(method string, err Error, elapsed time.Duration) {
	if err != nil && err.ErrorCode() == NotFoundErrorCode {
		// unregistered methods share a single label
		method = "unknown"
	}
	code := 0
	if err != nil {
		code = err.ErrorCode()
	}
	requestsHandled.WithLabelValues(method, strconv.Itoa(code)).Inc()
	requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
