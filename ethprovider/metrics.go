package ethprovider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/metrics"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "rpc",
		Name:      "request_results_total",
	}, []string{"chain_id", "query", "status"})

	requestDurations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: "rpc",
		Name:      "request_duration_seconds",
		Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 20},
	}, []string{"chain_id", "query"})
)

func observeError(chainID, query string, err error) {
	var rpcErr rpc.Error
	switch {
	case err == nil:
		requestResults.WithLabelValues(chainID, query, "ok").Inc()
	case errors.Is(err, context.DeadlineExceeded):
		requestResults.WithLabelValues(chainID, query, "timeout").Inc()
	case errors.As(err, &rpcErr):
		requestResults.WithLabelValues(chainID, query, fmt.Sprintf("error-%d", rpcErr.ErrorCode())).Inc()
	default:
		requestResults.WithLabelValues(chainID, query, "error").Inc()
	}
}

func observeDuration(chainID, query string) func() time.Duration {
	return metrics.ObserveDuration(requestDurations.WithLabelValues(chainID, query))
}
